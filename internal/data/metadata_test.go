package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"moviehub/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

func newMetadataServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestMetadataLookup(t *testing.T) {
	srv, calls := newMetadataServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("t") != "Heat" || q.Get("y") != "1995" || q.Get("apikey") != "secret" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Title":"Heat","Year":"1995","Runtime":"170 min","Genre":"Action, Crime, Drama",` +
			`"Director":"Michael Mann","Actors":"Al Pacino, Robert De Niro","Plot":"N/A","Poster":"https://img/heat.jpg","Response":"True"}`))
	})
	client := NewMetadataClient(&conf.Metadata{URL: srv.URL, APIKey: "secret", MaxRetries: 2}, log.DefaultLogger)

	md, err := client.LookupMovie(context.Background(), "Heat", 1995)
	if err != nil {
		t.Fatalf("LookupMovie() error = %v", err)
	}
	if md.Director != "Michael Mann" || md.PosterURL != "https://img/heat.jpg" {
		t.Fatalf("LookupMovie() = %+v", md)
	}
	if md.Plot != "" {
		t.Errorf("Plot = %q, want N/A mapped to empty", md.Plot)
	}
	if md.RuntimeMins == nil || *md.RuntimeMins != 170 {
		t.Errorf("RuntimeMins = %v, want 170", md.RuntimeMins)
	}
	if !reflect.DeepEqual(md.Actors, []string{"Al Pacino", "Robert De Niro"}) {
		t.Errorf("Actors = %v", md.Actors)
	}
	if !reflect.DeepEqual(md.Genres, []string{"Action", "Crime", "Drama"}) {
		t.Errorf("Genres = %v", md.Genres)
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestMetadataNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status 404", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"response false", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newMetadataServer(t, tt.handler)
			client := NewMetadataClient(&conf.Metadata{URL: srv.URL, MaxRetries: 3}, log.DefaultLogger)

			md, err := client.LookupMovie(context.Background(), "Nothing", 0)
			if err != nil || md != nil {
				t.Fatalf("LookupMovie() = %+v, %v; want nil, nil", md, err)
			}
			if got := atomic.LoadInt32(calls); got != 1 {
				t.Errorf("requests = %d, want no retries", got)
			}
		})
	}
}

func TestMetadataRetriesServerErrors(t *testing.T) {
	srv, calls := newMetadataServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := NewMetadataClient(&conf.Metadata{URL: srv.URL, MaxRetries: 2, Timeout: conf.NewDuration(time.Second)}, log.DefaultLogger)

	if _, err := client.LookupMovie(context.Background(), "Heat", 0); err == nil {
		t.Fatal("LookupMovie() error = nil, want failure after retries")
	}
	if got := atomic.LoadInt32(calls); got != 3 {
		t.Fatalf("requests = %d, want 3", got)
	}
}

func TestMetadataRetryStopsOnCancel(t *testing.T) {
	srv, calls := newMetadataServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client := NewMetadataClient(&conf.Metadata{URL: srv.URL, MaxRetries: 5}, log.DefaultLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.LookupMovie(ctx, "Heat", 0); err == nil {
		t.Fatal("LookupMovie() error = nil, want context error")
	}
	if got := atomic.LoadInt32(calls); got != 1 {
		t.Fatalf("requests = %d, want the first attempt only", got)
	}
}

func TestMetadataDisabled(t *testing.T) {
	for _, c := range []*conf.Metadata{nil, {}} {
		md, err := NewMetadataClient(c, log.DefaultLogger).LookupMovie(context.Background(), "Heat", 1995)
		if md != nil || err != nil {
			t.Fatalf("disabled LookupMovie() = %+v, %v", md, err)
		}
	}
}
