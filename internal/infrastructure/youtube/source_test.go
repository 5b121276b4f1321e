package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewSource(context.Background(), "test-key",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	return s
}

func TestSearchShorts(t *testing.T) {
	var gotQuery, gotDuration string
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/search") {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		gotDuration = r.URL.Query().Get("videoDuration")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"kind":"youtube#video","videoId":"abc"},"snippet":{"title":"Latte art #coffee","description":"#barista life"}},
			{"id":{"kind":"youtube#video","videoId":"def"},"snippet":{"title":"Pour over"}}
		]}`))
	})

	videos, err := s.SearchShorts(context.Background(), "coffee shorts", 10)
	if err != nil {
		t.Fatalf("SearchShorts: %v", err)
	}
	if gotQuery != "coffee shorts" || gotDuration != "short" {
		t.Errorf("q=%q videoDuration=%q", gotQuery, gotDuration)
	}
	if len(videos) != 2 || videos[0].ID != "abc" || videos[0].Description != "#barista life" {
		t.Errorf("videos = %+v", videos)
	}
}

func TestStatistics(t *testing.T) {
	var gotIDs string
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotIDs = strings.Join(r.URL.Query()["id"], ",")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":"abc","statistics":{"viewCount":"1000","likeCount":"50","commentCount":"7"}},
			{"id":"def"}
		]}`))
	})

	stats, err := s.Statistics(context.Background(), []string{"abc", "def"})
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if gotIDs != "abc,def" {
		t.Errorf("id param = %q", gotIDs)
	}
	if len(stats) != 1 || stats[0].Views != 1000 || stats[0].Likes != 50 || stats[0].Comments != 7 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSearchError(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	})
	if _, err := s.SearchShorts(context.Background(), "x", 5); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewSourceWithoutKey(t *testing.T) {
	s, err := NewSource(context.Background(), "")
	if err != nil || s != nil {
		t.Fatalf("got %v %v, want nil nil", s, err)
	}
}
