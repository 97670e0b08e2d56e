package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashgraph-online/media-mint-go/pkg/pipeline"
)

// Printer writes styled status lines for people watching a run.
type Printer struct {
	out io.Writer
}

// New returns a Printer writing to out, or to stdout when out is nil.
func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

func (p *Printer) line(text string) {
	fmt.Fprintln(p.out, text)
}

func (p *Printer) Title(title string) {
	p.line(StyleTitle.Render(title))
}

func (p *Printer) Success(format string, args ...any) {
	p.line(StyleSuccess.Render(IconSuccess + " " + fmt.Sprintf(format, args...)))
}

func (p *Printer) Info(format string, args ...any) {
	p.line(StyleInfo.Render(IconInfo + " " + fmt.Sprintf(format, args...)))
}

func (p *Printer) Warn(format string, args ...any) {
	p.line(StyleWarning.Render(IconWarning + " " + fmt.Sprintf(format, args...)))
}

func (p *Printer) Error(err error) {
	p.line(StyleError.Render(IconError + " Error: " + err.Error()))
}

func (p *Printer) Uploaded(name string, uri string) {
	p.line(StyleInfo.Render(IconUpload+" "+name) + " " + StyleMuted.Render(uri))
}

// Field prints an aligned "key value" pair.
func (p *Printer) Field(key string, value string) {
	p.line("  " + StyleKey.Render(key) + StyleBold.Render(value))
}

// Tips prints a troubleshooting block.
func (p *Printer) Tips(tips []string) {
	if len(tips) == 0 {
		return
	}
	p.line("")
	p.line(StyleWarning.Render("Troubleshooting tips:"))
	for _, tip := range tips {
		p.line(StyleMuted.Render("  " + IconTip + " " + tip))
	}
}

// Progress reports pipeline stage transitions as status lines.
func (p *Printer) Progress(event pipeline.Event) {
	if event.To == pipeline.StageFailed {
		p.line(StyleError.Render(fmt.Sprintf("%s %s failed", IconError, stageLabel(event.From))))
		return
	}
	if event.To == pipeline.StageDone {
		return
	}
	p.line(StyleMuted.Render("… " + stageLabel(event.To)))
}

func stageLabel(stage pipeline.Stage) string {
	label := strings.ReplaceAll(string(stage), "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

var (
	// TipsMint are printed when a mint run fails.
	TipsMint = []string{
		"Ensure every file exists at the configured path",
		"Check the operator account HBAR balance for storage and mint fees",
		"Large files may need more than one attempt",
		"Confirm the supply key matches the token when minting into an existing collection",
	}
	// TipsUpload are printed when an upload run fails.
	TipsUpload = []string{
		"Check your internet connection",
		"Check the operator account HBAR balance for inscription fees",
		"Add your files to the assets folder and update the file paths",
	}
)
