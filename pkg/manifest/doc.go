// Package manifest loads YAML mint manifests and turns them into pipeline plans.
package manifest
