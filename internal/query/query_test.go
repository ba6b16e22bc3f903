package query

import (
	"net/url"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterComparisonOperators(t *testing.T) {
	values := url.Values{}
	values.Set("duration[gte]", "5")
	values.Set("price[lt]", "1500")
	values.Set("difficulty", "easy")

	filter, _ := New(values, nil).Filter().Definition()

	duration, ok := filter["duration"].(bson.M)
	if !ok {
		t.Fatalf("expected duration sub-document, got %#v", filter["duration"])
	}
	if duration["$gte"] != float64(5) {
		t.Errorf("duration $gte = %v, want 5", duration["$gte"])
	}
	price, ok := filter["price"].(bson.M)
	if !ok {
		t.Fatalf("expected price sub-document, got %#v", filter["price"])
	}
	if price["$lt"] != float64(1500) {
		t.Errorf("price $lt = %v, want 1500", price["$lt"])
	}
	if filter["difficulty"] != "easy" {
		t.Errorf("difficulty = %v, want easy", filter["difficulty"])
	}
}

func TestFilterCombinesOperatorsOnOneField(t *testing.T) {
	values := url.Values{}
	values.Set("price[gte]", "100")
	values.Set("price[lte]", "900")

	filter, _ := New(values, nil).Filter().Definition()

	price, ok := filter["price"].(bson.M)
	if !ok {
		t.Fatalf("expected price sub-document, got %#v", filter["price"])
	}
	if price["$gte"] != float64(100) || price["$lte"] != float64(900) {
		t.Errorf("price = %v, want both bounds", price)
	}
}

func TestFilterSkipsReservedParameters(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("sort", "price")
	values.Set("limit", "10")
	values.Set("fields", "name")
	values.Set("maxGroupSize", "15")

	filter, _ := New(values, nil).Filter().Definition()

	if len(filter) != 1 {
		t.Fatalf("filter = %v, want only maxGroupSize", filter)
	}
	if filter["maxGroupSize"] != float64(15) {
		t.Errorf("maxGroupSize = %v, want 15", filter["maxGroupSize"])
	}
}

func TestFilterClientCannotOverrideBase(t *testing.T) {
	values := url.Values{}
	values.Set("secretTour", "true")

	base := bson.M{"secretTour": bson.M{"$ne": true}}
	filter, _ := New(values, base).Filter().Definition()

	scope, ok := filter["secretTour"].(bson.M)
	if !ok || scope["$ne"] != true {
		t.Errorf("secretTour = %#v, want pinned $ne scope", filter["secretTour"])
	}
}

func TestSortDefaultsToNewestFirst(t *testing.T) {
	_, opts := New(url.Values{}, nil).Sort().Definition()

	sort, ok := opts.Sort.(bson.D)
	if !ok || len(sort) != 1 {
		t.Fatalf("sort = %#v, want single entry", opts.Sort)
	}
	if sort[0].Key != "createdAt" || sort[0].Value != int32(-1) {
		t.Errorf("sort = %v, want createdAt descending", sort)
	}
}

func TestSortCommaListWithDescendingPrefix(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "-price,ratingsAverage")

	_, opts := New(values, nil).Sort().Definition()

	sort := opts.Sort.(bson.D)
	if len(sort) != 2 {
		t.Fatalf("sort = %v, want two entries", sort)
	}
	if sort[0].Key != "price" || sort[0].Value != int32(-1) {
		t.Errorf("sort[0] = %v, want price descending", sort[0])
	}
	if sort[1].Key != "ratingsAverage" || sort[1].Value != int32(1) {
		t.Errorf("sort[1] = %v, want ratingsAverage ascending", sort[1])
	}
}

func TestSelectDefaultExcludesRevisionOnly(t *testing.T) {
	_, opts := New(url.Values{}, nil).Select().Definition()

	projection, ok := opts.Projection.(bson.M)
	if !ok {
		t.Fatalf("projection = %#v", opts.Projection)
	}
	if len(projection) != 1 || projection["revision"] != 0 {
		t.Errorf("projection = %v, want revision exclusion only", projection)
	}
}

func TestSelectInclusionList(t *testing.T) {
	values := url.Values{}
	values.Set("fields", "name,price,duration")

	_, opts := New(values, nil).Select().Definition()

	projection := opts.Projection.(bson.M)
	if len(projection) != 3 {
		t.Fatalf("projection = %v, want three fields", projection)
	}
	for _, f := range []string{"name", "price", "duration"} {
		if projection[f] != 1 {
			t.Errorf("projection[%s] = %v, want 1", f, projection[f])
		}
	}
}

func TestPaginateSkipAndLimit(t *testing.T) {
	values := url.Values{}
	values.Set("page", "3")
	values.Set("limit", "20")

	_, opts := New(values, nil).Paginate().Definition()

	if *opts.Skip != 40 {
		t.Errorf("skip = %d, want 40", *opts.Skip)
	}
	if *opts.Limit != 20 {
		t.Errorf("limit = %d, want 20", *opts.Limit)
	}
}

func TestPaginateDefaults(t *testing.T) {
	_, opts := New(url.Values{}, nil).Paginate().Definition()

	if *opts.Skip != 0 {
		t.Errorf("skip = %d, want 0", *opts.Skip)
	}
	if *opts.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", *opts.Limit, DefaultLimit)
	}
}

func TestPaginateClampsLimit(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "10000")

	_, opts := New(values, nil).Paginate().Definition()

	if *opts.Limit != MaxLimit {
		t.Errorf("limit = %d, want cap %d", *opts.Limit, MaxLimit)
	}
}

func TestPaginateRejectsNonPositiveValues(t *testing.T) {
	values := url.Values{}
	values.Set("page", "0")
	values.Set("limit", "-5")

	_, opts := New(values, nil).Paginate().Definition()

	if *opts.Skip != 0 {
		t.Errorf("skip = %d, want 0", *opts.Skip)
	}
	if *opts.Limit != DefaultLimit {
		t.Errorf("limit = %d, want default", *opts.Limit)
	}
}
