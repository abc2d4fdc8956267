package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/paulmach/orb/geojson"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
	"SafeMap-App/internal/domain/service"
)

// gridConcurrency bounds the per-cell fan-out so a large grid request does
// not overwhelm the POI database with simultaneous nearest-neighbor queries.
const gridConcurrency = 8

// GridUseCase serves aggregated grid scores over a bounding box.
type GridUseCase interface {
	GetGrid(ctx context.Context, req model.GridRequest) (*model.GridResponse, error)
}

type gridUseCaseImpl struct {
	tiler   *service.GridTiler
	scoring *service.ScoringService
	cache   repository.GridCacheRepository
}

// NewGridUseCase creates a grid usecase over the tiler, scoring service and
// grid cache backend.
func NewGridUseCase(tiler *service.GridTiler, scoring *service.ScoringService, cache repository.GridCacheRepository) GridUseCase {
	return &gridUseCaseImpl{tiler: tiler, scoring: scoring, cache: cache}
}

type cellOutcome struct {
	index    int
	result   *model.ScoreResult
	computed bool
	err      error
}

// GetGrid tiles the bounding box, scores every cell centroid (served from
// the grid cache where possible) and returns the cells as a GeoJSON
// FeatureCollection in row-major order.
//
// Cell work fans out over a bounded worker pool; the first error cancels the
// remaining work and the whole grid is discarded, never partially returned.
// Freshly computed cells are written back in one batch afterwards.
func (u *gridUseCaseImpl) GetGrid(ctx context.Context, req model.GridRequest) (*model.GridResponse, error) {
	cells, err := u.tiler.Tile(req.BBox, req.ResolutionM)
	if err != nil {
		return nil, err
	}

	version := u.scoring.ModelVersion()
	for i := range cells {
		cells[i].Key = service.CellCacheKey(cells[i].Bound, req.ResolutionM, version)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	outcomes := make(chan cellOutcome, len(cells))
	var wg sync.WaitGroup

	workers := gridConcurrency
	if len(cells) < workers {
		workers = len(cells)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes <- u.scoreCell(ctx, &cells[idx], idx)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range cells {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	computed := make(map[string]*model.ScoreResult)
	var firstErr error
	for outcome := range outcomes {
		if outcome.err != nil {
			if firstErr == nil {
				firstErr = outcome.err
				cancel()
			}
			continue
		}
		cells[outcome.index].Result = outcome.result
		if outcome.computed {
			computed[cells[outcome.index].Key] = outcome.result
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("grid computation aborted: %w", err)
	}

	if len(computed) > 0 {
		if err := u.cache.PutBatch(ctx, computed); err != nil {
			log.Printf("⚠️ grid cache write failed (%d cells): %v", len(computed), err)
		}
	}

	// The cells slice is already in row-major order; outcomes only filled
	// results in place, so the feature list below is deterministic.
	features := make([]*geojson.Feature, 0, len(cells))
	for i := range cells {
		feature := geojson.NewFeature(cells[i].Polygon())
		feature.Properties = geojson.Properties{
			"score":        cells[i].Result.Score,
			"resolution_m": req.ResolutionM,
		}
		features = append(features, feature)
	}

	return &model.GridResponse{
		Type:         "FeatureCollection",
		Features:     features,
		ModelVersion: version,
		ResolutionM:  req.ResolutionM,
		CellCount:    len(features),
	}, nil
}

// scoreCell resolves one cell: grid cache first, centroid scoring on miss.
// A cache read failure only degrades to computation.
func (u *gridUseCaseImpl) scoreCell(ctx context.Context, cell *model.GridCell, index int) cellOutcome {
	if err := ctx.Err(); err != nil {
		return cellOutcome{index: index, err: err}
	}

	cached, err := u.cache.Get(ctx, cell.Key)
	if err == nil {
		return cellOutcome{index: index, result: cached}
	}
	if !errors.Is(err, model.ErrCacheMiss) {
		log.Printf("⚠️ grid cache read failed for %s, computing directly: %v", cell.Key, err)
	}

	result, err := u.scoring.ScorePoint(ctx, cell.Centroid.Lat, cell.Centroid.Lng)
	if err != nil {
		return cellOutcome{index: index, err: err}
	}
	return cellOutcome{index: index, result: result, computed: true}
}
