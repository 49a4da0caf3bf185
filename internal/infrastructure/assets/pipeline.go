// Package assets runs the runtime's asynchronous I/O: file reads, texture
// decodes, and prefab imports, each as a short-lived worker that performs
// one blocking job off the main thread and posts exactly one result
// envelope onto a multi-producer, single-consumer channel. The dispatch
// core drains it non-blockingly once per frame.
package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hearthforge/pluginrt/internal/domain/world"
)

// Kind identifies which command an Envelope is the async result of.
type Kind int

const (
	KindReadFile Kind = iota
	KindLoadTexture
	KindLoadPrefab
)

// Envelope is the single result a worker posts for one submitted job.
// Only the fields relevant to Kind are populated.
type Envelope struct {
	Kind      Kind
	PluginID  uint64
	RequestID uint64
	Err       error

	// KindReadFile
	Data []byte

	// KindLoadTexture. TextureID was minted synchronously by the caller
	// before the worker was spawned.
	TextureID   uint64
	TextureName string
	RGBA        []byte
	Width       int
	Height      int

	// KindLoadPrefab
	Asset    world.PrefabAsset
	Position world.Vec3
}

// defaultPerPluginConcurrency caps how many asset jobs one plugin can have
// in flight at once, so a misbehaving plugin can't exhaust worker
// goroutines for everyone else.
const defaultPerPluginConcurrency = 4

// Pipeline is the async asset pipeline's consumer-facing handle: a
// buffered results channel fed by per-job worker goroutines.
type Pipeline struct {
	results  chan Envelope
	importer world.PrefabImporter
	sems     map[uint64]*semaphore.Weighted
	perMax   int64
	wg       errgroup.Group
}

// NewPipeline returns a Pipeline whose results channel has capacity
// bufferSize and whose workers decode glTF assets via importer.
// perPluginConcurrency caps in-flight jobs per plugin; 0 or negative
// applies defaultPerPluginConcurrency.
func NewPipeline(bufferSize int, importer world.PrefabImporter, perPluginConcurrency int) *Pipeline {
	if perPluginConcurrency <= 0 {
		perPluginConcurrency = defaultPerPluginConcurrency
	}
	return &Pipeline{
		results:  make(chan Envelope, bufferSize),
		importer: importer,
		sems:     make(map[uint64]*semaphore.Weighted),
		perMax:   int64(perPluginConcurrency),
	}
}

// PerPluginConcurrency reports the configured in-flight-jobs-per-plugin
// cap, for callers that want to confirm how the pipeline was sized.
func (p *Pipeline) PerPluginConcurrency() int64 { return p.perMax }

func (p *Pipeline) semaphoreFor(pluginID uint64) *semaphore.Weighted {
	sem, ok := p.sems[pluginID]
	if !ok {
		sem = semaphore.NewWeighted(p.perMax)
		p.sems[pluginID] = sem
	}
	return sem
}

// SubmitReadFile spawns a worker that reads path, already sanitized by
// the caller, and posts a KindReadFile envelope.
func (p *Pipeline) SubmitReadFile(ctx context.Context, pluginID, requestID uint64, path string) {
	sem := p.semaphoreFor(pluginID)
	p.wg.Go(func() error {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil
		}
		defer sem.Release(1)

		data, err := os.ReadFile(path)
		p.results <- Envelope{Kind: KindReadFile, PluginID: pluginID, RequestID: requestID, Data: data, Err: err}
		return nil
	})
}

// SubmitLoadTexture spawns a worker that decodes the image at path and
// posts a KindLoadTexture envelope. textureID must already be allocated by
// the caller so it can be referenced before the decode completes.
func (p *Pipeline) SubmitLoadTexture(ctx context.Context, pluginID, requestID, textureID uint64, path, textureName string) {
	sem := p.semaphoreFor(pluginID)
	p.wg.Go(func() error {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil
		}
		defer sem.Release(1)

		rgba, width, height, err := decodeTexture(path)
		p.results <- Envelope{
			Kind:        KindLoadTexture,
			PluginID:    pluginID,
			RequestID:   requestID,
			TextureID:   textureID,
			TextureName: textureName,
			RGBA:        rgba,
			Width:       width,
			Height:      height,
			Err:         err,
		}
		return nil
	})
}

// SubmitLoadPrefab spawns a worker that imports the glTF asset at path and
// posts a KindLoadPrefab envelope.
func (p *Pipeline) SubmitLoadPrefab(ctx context.Context, pluginID, requestID uint64, path string, position world.Vec3) {
	sem := p.semaphoreFor(pluginID)
	p.wg.Go(func() error {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil
		}
		defer sem.Release(1)

		data, err := os.ReadFile(path)
		if err != nil {
			p.results <- Envelope{Kind: KindLoadPrefab, PluginID: pluginID, RequestID: requestID, Position: position, Err: err}
			return nil
		}

		asset, err := p.importer.Import(data)
		p.results <- Envelope{Kind: KindLoadPrefab, PluginID: pluginID, RequestID: requestID, Position: position, Asset: asset, Err: err}
		return nil
	})
}

// Drain returns every envelope currently queued, in completion order, and
// removes them from the channel. It never blocks.
func (p *Pipeline) Drain() []Envelope {
	var drained []Envelope
	for {
		select {
		case env := <-p.results:
			drained = append(drained, env)
		default:
			return drained
		}
	}
}

// Close waits for every in-flight worker to post its envelope. It does
// not drain the results channel.
func (p *Pipeline) Close() error {
	return p.wg.Wait()
}

func decodeTexture(path string) (rgba []byte, width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("assets: decode texture %q: %w", path, err)
	}

	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	buf := make([]byte, width*height*4)
	offset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			buf[offset+0] = byte(r >> 8)
			buf[offset+1] = byte(g >> 8)
			buf[offset+2] = byte(b >> 8)
			buf[offset+3] = byte(a >> 8)
			offset += 4
		}
	}
	return buf, width, height, nil
}
