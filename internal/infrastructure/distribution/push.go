package distribution

import (
	"context"
	"fmt"
	"path/filepath"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"
)

// MediaTypeManifestConfig is the (empty) config media type every pushed
// plugin artifact uses, since a plugin's config is carried in its
// plugin.json sidecar rather than the OCI config blob.
const MediaTypeManifestConfig = "application/vnd.pluginrt.plugin.config.v1+json"

// Pusher packages a .wasm plugin binary as an OCI artifact layer, plus its
// optional plugin.json sidecar as a second layer, and pushes it to a
// registry.
type Pusher struct {
	creds Credentials
}

// NewPusher returns a Pusher using creds for registry authentication.
func NewPusher(creds Credentials) *Pusher {
	return &Pusher{creds: creds}
}

// Push packages wasmPath (and manifestPath, if non-empty) and pushes the
// resulting artifact to reference.
func (p *Pusher) Push(ctx context.Context, reference, wasmPath, manifestPath string) error {
	ref, err := remote.NewRepository(reference)
	if err != nil {
		return fmt.Errorf("distribution: parse reference %q: %w", reference, err)
	}
	ref.Client = &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
		Credential: auth.StaticCredential(ref.Reference.Registry, auth.Credential{
			Username: p.creds.Username,
			Password: p.creds.Password,
		}),
	}

	srcDir := filepath.Dir(wasmPath)
	store, err := file.New(srcDir)
	if err != nil {
		return fmt.Errorf("distribution: open source directory %q: %w", srcDir, err)
	}
	defer store.Close()

	layers := make([]ocispec.Descriptor, 0, 2)

	wasmDesc, err := store.Add(ctx, filepath.Base(wasmPath), MediaTypeWasmLayer, wasmPath)
	if err != nil {
		return fmt.Errorf("distribution: stage wasm layer: %w", err)
	}
	layers = append(layers, wasmDesc)

	if manifestPath != "" {
		manifestDesc, err := store.Add(ctx, filepath.Base(manifestPath), "application/vnd.pluginrt.plugin.manifest.v1+json", manifestPath)
		if err != nil {
			return fmt.Errorf("distribution: stage manifest layer: %w", err)
		}
		layers = append(layers, manifestDesc)
	}

	packOpts := oras.PackManifestOptions{Layers: layers}
	manifestDesc, err := oras.PackManifest(ctx, store, oras.PackManifestVersion1_1, MediaTypeManifestConfig, packOpts)
	if err != nil {
		return fmt.Errorf("distribution: pack manifest: %w", err)
	}

	tag := ref.Reference.ReferenceOrDefault()
	if err := store.Tag(ctx, manifestDesc, tag); err != nil {
		return fmt.Errorf("distribution: tag manifest: %w", err)
	}

	if _, err := oras.Copy(ctx, store, tag, ref, tag, oras.DefaultCopyOptions); err != nil {
		return fmt.Errorf("distribution: push %q: %w", reference, err)
	}
	return nil
}
