package mongo

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestScopedPipelinePrependsMatch(t *testing.T) {
	scope := bson.M{"secretTour": bson.M{"$ne": true}}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$difficulty"}}},
	}

	got := scopedPipeline(scope, pipeline)

	if len(got) != 2 {
		t.Fatalf("pipeline length = %d, want 2", len(got))
	}
	want := bson.D{{Key: "$match", Value: scope}}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("first stage = %v, want %v", got[0], want)
	}
	if !reflect.DeepEqual(got[1], pipeline[0]) {
		t.Errorf("second stage = %v, want the original $group", got[1])
	}
}

func TestScopedPipelineLeavesGeoNearUnscoped(t *testing.T) {
	scope := bson.M{"secretTour": bson.M{"$ne": true}}
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{"distanceField": "distance"}}},
		{{Key: "$project", Value: bson.M{"distance": 1, "name": 1}}},
	}

	got := scopedPipeline(scope, pipeline)

	if !reflect.DeepEqual(got, pipeline) {
		t.Fatalf("geospatial pipeline changed: %v", got)
	}
	for _, stage := range got {
		if stageName(stage) == "$match" {
			t.Fatal("scope $match injected into a $geoNear pipeline")
		}
	}
}

func TestScopedPipelineEmptyScope(t *testing.T) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.M{"price": 1}}},
	}

	if got := scopedPipeline(nil, pipeline); !reflect.DeepEqual(got, pipeline) {
		t.Errorf("unscoped pipeline changed: %v", got)
	}
}
