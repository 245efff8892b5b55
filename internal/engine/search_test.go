package engine

import (
	"context"
	"testing"

	"ragd/pkg/types"
)

func TestSearch_Ranking(t *testing.T) {
	e := newTestEngine(t, Config{})
	ingest(t, e, corpus...)
	res, err := e.Search(context.Background(), types.SearchRequest{Query: "How early are vacation requests filed?"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Results) == 0 || res.Results[0].DocumentID != "vacation" {
		t.Fatalf("results=%+v", res.Results)
	}
	for i := 1; i < len(res.Results); i++ {
		if res.Results[i].Score > res.Results[i-1].Score {
			t.Fatalf("not sorted: %+v", res.Results)
		}
	}
	if res.Results[0].Metadata["team"] != "hr" {
		t.Fatalf("metadata missing: %+v", res.Results[0])
	}
}

func TestSearch_TopK(t *testing.T) {
	e := newTestEngine(t, Config{TopK: 1})
	ingest(t, e, corpus...)
	res, _ := e.Search(context.Background(), types.SearchRequest{Query: "laptops expense vacation"})
	if len(res.Results) != 1 {
		t.Fatalf("default top_k not applied: %d", len(res.Results))
	}
	res, _ = e.Search(context.Background(), types.SearchRequest{Query: "laptops expense vacation", TopK: 3})
	if len(res.Results) != 3 {
		t.Fatalf("explicit top_k not applied: %d", len(res.Results))
	}
}

func TestSearch_Filters(t *testing.T) {
	e := newTestEngine(t, Config{})
	ingest(t, e, corpus...)
	res, _ := e.Search(context.Background(), types.SearchRequest{Query: "laptops expense vacation", Filters: map[string]string{"team": "finance"}})
	if len(res.Results) != 1 || res.Results[0].DocumentID != "expenses" {
		t.Fatalf("results=%+v", res.Results)
	}
	res, _ = e.Search(context.Background(), types.SearchRequest{Query: "laptops", Filters: map[string]string{"team": "nobody"}})
	if len(res.Results) != 0 {
		t.Fatalf("results=%+v", res.Results)
	}
}

func TestSearch_MinScore(t *testing.T) {
	e := newTestEngine(t, Config{})
	ingest(t, e, corpus...)
	res, _ := e.Search(context.Background(), types.SearchRequest{Query: "vacation", MinScore: 1e9})
	if len(res.Results) != 0 {
		t.Fatalf("min_score ignored: %+v", res.Results)
	}
}

func TestSearch_Invalid(t *testing.T) {
	e := newTestEngine(t, Config{})
	if _, err := e.Search(context.Background(), types.SearchRequest{Query: " "}); !IsInvalidRequest(err) {
		t.Fatalf("err=%v", err)
	}
	if _, err := e.Search(context.Background(), types.SearchRequest{Query: "x", TopK: -1}); !IsInvalidRequest(err) {
		t.Fatalf("err=%v", err)
	}
}

func TestSearch_StopwordOnlyQuery(t *testing.T) {
	e := newTestEngine(t, Config{})
	ingest(t, e, corpus...)
	res, err := e.Search(context.Background(), types.SearchRequest{Query: "the and of"})
	if err != nil || len(res.Results) != 0 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}
