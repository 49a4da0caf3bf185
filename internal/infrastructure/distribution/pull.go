// Package distribution pulls plugin artifacts from an OCI registry into
// the local plugins directory, mirroring the teacher's registry-pull CLI
// UX applied to wasm plugin binaries instead of compliance plugins.
package distribution

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"
)

// MediaTypeWasmLayer is the media type a plugin artifact's wasm layer
// must declare.
const MediaTypeWasmLayer = "application/wasm"

// Credentials authenticates against a private registry. Either field may
// be empty for anonymous pull.
type Credentials struct {
	Username string
	Password string
}

// Puller fetches plugin artifacts from an OCI registry.
type Puller struct {
	creds Credentials
}

// NewPuller returns a Puller using creds for registry authentication.
func NewPuller(creds Credentials) *Puller {
	return &Puller{creds: creds}
}

// Pull fetches the artifact at reference (e.g.
// "ghcr.io/org/plugins/enemy-ai:1.0.0") and extracts its wasm layer into
// destDir. It returns the path to the written .wasm file and a UUID job
// id for log correlation.
func (p *Puller) Pull(ctx context.Context, reference, destDir string) (path string, jobID string, err error) {
	jobID = uuid.NewString()

	repo, err := remote.NewRepository(reference)
	if err != nil {
		return "", jobID, fmt.Errorf("distribution: parse reference %q: %w", reference, err)
	}
	repo.Client = &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
		Credential: auth.StaticCredential(repo.Reference.Registry, auth.Credential{
			Username: p.creds.Username,
			Password: p.creds.Password,
		}),
	}

	store, err := file.New(destDir)
	if err != nil {
		return "", jobID, fmt.Errorf("distribution: open destination %q: %w", destDir, err)
	}
	defer store.Close()

	desc, err := oras.Copy(ctx, repo, repo.Reference.ReferenceOrDefault(), store, repo.Reference.ReferenceOrDefault(), oras.DefaultCopyOptions)
	if err != nil {
		return "", jobID, fmt.Errorf("distribution: pull %q: %w", reference, err)
	}

	manifestPath, err := wasmPathFromManifest(ctx, store, desc, destDir)
	if err != nil {
		return "", jobID, err
	}
	return manifestPath, jobID, nil
}

// wasmPathFromManifest resolves the single wasm-layer file the pulled
// manifest describes, within the file store's root.
func wasmPathFromManifest(ctx context.Context, store *file.Store, desc ocispec.Descriptor, destDir string) (string, error) {
	successors, err := content.Successors(ctx, store, desc)
	if err != nil {
		return "", fmt.Errorf("distribution: read manifest: %w", err)
	}
	for _, s := range successors {
		if s.MediaType == MediaTypeWasmLayer {
			name, ok := s.Annotations[ocispec.AnnotationTitle]
			if !ok {
				return "", fmt.Errorf("distribution: wasm layer missing %s annotation", ocispec.AnnotationTitle)
			}
			return destDir + "/" + name, nil
		}
	}
	return "", fmt.Errorf("distribution: manifest has no %s layer", MediaTypeWasmLayer)
}
