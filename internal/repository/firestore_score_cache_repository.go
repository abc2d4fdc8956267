package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SafeMap-App/internal/domain/model"
	"SafeMap-App/internal/domain/repository"
	fsinfra "SafeMap-App/internal/infrastructure/firestore"
)

// FirestoreScoreCacheRepository keeps point score results in a Firestore
// collection, one document per cache key.
type FirestoreScoreCacheRepository struct {
	client *fsinfra.FirestoreClient
}

func NewFirestoreScoreCacheRepository(client *fsinfra.FirestoreClient) *FirestoreScoreCacheRepository {
	return &FirestoreScoreCacheRepository{client: client}
}

var _ repository.ScoreCacheRepository = (*FirestoreScoreCacheRepository)(nil)

// firestoreScoreDocument is the stored document shape.
type firestoreScoreDocument struct {
	Score        float64                   `firestore:"score"`
	ModelVersion string                    `firestore:"model_version"`
	Lat          float64                   `firestore:"lat"`
	Lng          float64                   `firestore:"lng"`
	Components   []firestoreScoreComponent `firestore:"components"`
	ComputedAt   time.Time                 `firestore:"computed_at"`
}

type firestoreScoreComponent struct {
	POIType              string   `firestore:"poi_type"`
	DistanceM            *float64 `firestore:"distance_m"`
	Subscore             float64  `firestore:"subscore"`
	Weight               float64  `firestore:"weight"`
	WeightedContribution float64  `firestore:"weighted_contribution"`
	NearestName          *string  `firestore:"nearest_name"`
}

func (r *FirestoreScoreCacheRepository) Get(ctx context.Context, key string) (*model.ScoreResult, error) {
	doc, err := r.client.GetClient().Collection("scoreCache").Doc(docID(key)).Get(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %s", model.ErrCacheMiss, key)
		}
		return nil, fmt.Errorf("%w: firestore get: %v", model.ErrUpstreamUnavailable, err)
	}

	var stored firestoreScoreDocument
	if err := doc.DataTo(&stored); err != nil {
		return nil, fmt.Errorf("decoding cached score %s: %w", key, err)
	}

	result := &model.ScoreResult{
		Score:        stored.Score,
		ModelVersion: stored.ModelVersion,
		Lat:          stored.Lat,
		Lng:          stored.Lng,
	}
	for _, c := range stored.Components {
		result.Components = append(result.Components, model.ScoreComponent{
			POIType:              model.POIType(c.POIType),
			DistanceM:            c.DistanceM,
			Subscore:             c.Subscore,
			Weight:               c.Weight,
			WeightedContribution: c.WeightedContribution,
			NearestName:          c.NearestName,
		})
	}
	return result, nil
}

func (r *FirestoreScoreCacheRepository) Put(ctx context.Context, key string, result *model.ScoreResult) error {
	stored := firestoreScoreDocument{
		Score:        result.Score,
		ModelVersion: result.ModelVersion,
		Lat:          result.Lat,
		Lng:          result.Lng,
		ComputedAt:   time.Now().UTC(),
	}
	for _, c := range result.Components {
		stored.Components = append(stored.Components, firestoreScoreComponent{
			POIType:              string(c.POIType),
			DistanceM:            c.DistanceM,
			Subscore:             c.Subscore,
			Weight:               c.Weight,
			WeightedContribution: c.WeightedContribution,
			NearestName:          c.NearestName,
		})
	}

	_, err := r.client.GetClient().Collection("scoreCache").Doc(docID(key)).Set(ctx, stored)
	if err != nil {
		return fmt.Errorf("%w: firestore set: %v", model.ErrUpstreamUnavailable, err)
	}
	return nil
}

// docID makes a cache key safe as a Firestore document id.
func docID(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}
