package mediatype

import "testing"

func TestDetectKnownExtensions(t *testing.T) {
	cases := map[string]string{
		"cover.jpg":           "image/jpeg",
		"cover.jpeg":          "image/jpeg",
		"art.png":             "image/png",
		"loop.gif":            "image/gif",
		"track.mp3":           "audio/mpeg",
		"voice.wav":           "audio/wav",
		"clip.mp4":            "video/mp4",
		"letter.html":         "text/html",
		"notes.txt":           "text/plain",
		"metadata.json":       "application/json",
		"whitepaper.pdf":      "application/pdf",
		"assets/images/A.JPG": "image/jpeg",
		"./Track.Mp3":         "audio/mpeg",
	}

	for path, expected := range cases {
		if got := Detect(path); got != expected {
			t.Fatalf("Detect(%q) = %q, expected %q", path, got, expected)
		}
	}
}

func TestDetectUnknownExtensions(t *testing.T) {
	for _, path := range []string{"archive.zip", "page.htm", "README", "", "model.glb", "dir.d/file"} {
		if got := Detect(path); got != OctetStream {
			t.Fatalf("Detect(%q) = %q, expected %q", path, got, OctetStream)
		}
	}
}

func TestResolvePrefersDeclared(t *testing.T) {
	if got := Resolve("cover.jpg", " image/webp "); got != "image/webp" {
		t.Fatalf("expected declared type, got %q", got)
	}
	if got := Resolve("cover.jpg", ""); got != "image/jpeg" {
		t.Fatalf("expected detected type, got %q", got)
	}
}

func TestFamily(t *testing.T) {
	if Family("Audio/MPEG") != "audio" {
		t.Fatal("expected audio family")
	}
	if Family("garbage") != "" {
		t.Fatal("expected empty family for malformed type")
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":               ".jpg",
		"IMAGE/PNG":                ".png",
		"application/json":         ".json",
		"application/octet-stream": "",
		"":                         "",
	}
	for mimeType, expected := range cases {
		if got := Extension(mimeType); got != expected {
			t.Fatalf("Extension(%q) = %q, want %q", mimeType, got, expected)
		}
	}
}
