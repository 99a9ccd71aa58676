// Package iopipeline runs the two-stage convert pipeline: one
// goroutine parses and transforms entries into batches, the other
// writes batches to the sink. A bounded channel between them caps
// in-flight memory independently of input size.
package iopipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"uniparq/pkg/batch"
	"uniparq/pkg/config"
	"uniparq/pkg/transform"
	"uniparq/pkg/uniparq"
)

// Pipeline wires a source, a transformer and a sink together.
type Pipeline struct {
	source      uniparq.Source
	transformer *transform.Transformer
	sink        uniparq.Sink
	batchSize   int
	chanCap     int
}

// New assembles a pipeline from its stages.
func New(
	src uniparq.Source,
	tr *transform.Transformer,
	sink uniparq.Sink,
	cfg *config.Config,
) *Pipeline {
	chanCap := cfg.Performance.ChannelCapacity
	if chanCap < 1 {
		chanCap = 1
	}
	return &Pipeline{
		source:      src,
		transformer: tr,
		sink:        sink,
		batchSize:   cfg.Performance.BatchSize,
		chanCap:     chanCap,
	}
}

// Run drives the pipeline to completion. The first stage error
// cancels the other stage; the sink is always closed, and on a clean
// run its close error is the run's error.
func (p *Pipeline) Run(ctx context.Context) error {
	ch := make(chan *batch.Batch, p.chanCap)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(ch)
		return p.produce(gCtx, ch)
	})

	g.Go(func() error {
		return p.consume(gCtx, ch)
	})

	err := g.Wait()
	closeErr := p.sink.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// produce parses entries, transforms them into rows and sends full
// batches downstream. It honors cancellation before every send.
func (p *Pipeline) produce(
	ctx context.Context, ch chan<- *batch.Batch,
) error {
	batcher := batch.NewBatcher(p.batchSize)

	for p.source.Scan() {
		rows := p.transformer.Transform(p.source.Entry())
		for _, row := range rows {
			full := batcher.Push(row)
			if full == nil {
				continue
			}
			if err := send(ctx, ch, full); err != nil {
				return err
			}
		}
	}
	if err := p.source.Err(); err != nil {
		return err
	}

	if partial := batcher.Flush(); partial != nil {
		slog.Debug("flushing partial batch", "rows", partial.Len())
		return send(ctx, ch, partial)
	}
	return nil
}

func send(
	ctx context.Context, ch chan<- *batch.Batch, b *batch.Batch,
) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case ch <- b:
		return nil
	}
}

// consume writes batches in arrival order until the channel closes.
func (p *Pipeline) consume(
	ctx context.Context, ch <-chan *batch.Batch,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b, ok := <-ch:
			if !ok {
				return nil
			}
			if err := p.sink.Write(ctx, b); err != nil {
				return err
			}
		}
	}
}
