package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/shop-state/api"
	"github.com/irsalhamdi/shop-state/catalog"
	"github.com/irsalhamdi/shop-state/core/store"
	"github.com/irsalhamdi/shop-state/rate"
	"github.com/sirupsen/logrus"
)

const products = `[
	{"id": 1, "title": "Essence Mascara Lash Princess", "category": "beauty", "price": 9.99, "discountPercentage": 7.17,
	 "rating": 4.94, "thumbnail": "mascara.png", "reviews": [{"rating": 2}, {"rating": 5}]},
	{"id": 2, "title": "Eyeshadow Palette with Mirror", "category": "beauty", "price": 19.99, "thumbnail": "palette.png"},
	{"id": 16, "title": "Apple", "category": "groceries", "price": 1.99, "thumbnail": "apple.png"},
	{"id": 11, "title": "Annibale Colombo Bed", "category": "furniture", "price": 1899.99, "thumbnail": "bed.png"}
]`

// fakeCatalog mimics the remote product API and its cart service.
type fakeCatalog struct {
	*httptest.Server
	mu    sync.Mutex
	posts int
}

func newFakeCatalog() *fakeCatalog {
	f := &fakeCatalog{}

	var all []map[string]interface{}
	if err := json.Unmarshal([]byte(products), &all); err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"products": %s, "total": %d}`, products, len(all))
	})
	mux.HandleFunc("/products/search", func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		found := []map[string]interface{}{}
		for _, p := range all {
			if strings.Contains(strings.ToLower(p["title"].(string)), q) {
				found = append(found, p)
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"products": found})
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/products/")
		for _, p := range all {
			if fmt.Sprint(p["id"]) == id {
				json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"message": "Product with id '%s' not found"}`, id)
	})
	mux.HandleFunc("/carts/add", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			UserID   int `json:"userId"`
			Products []struct {
				ID       int `json:"id"`
				Quantity int `json:"quantity"`
			} `json:"products"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.posts++
		f.mu.Unlock()

		lines := []map[string]interface{}{}
		for _, l := range in.Products {
			for _, p := range all {
				if int(p["id"].(float64)) == l.ID {
					lines = append(lines, map[string]interface{}{
						"id":                 l.ID,
						"title":              p["title"],
						"price":              p["price"],
						"quantity":           l.Quantity,
						"total":              p["price"].(float64) * float64(l.Quantity),
						"discountPercentage": 10,
						"discountedPrice":    1,
						"thumbnail":          p["thumbnail"],
					})
				}
			}
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            51,
			"userId":        in.UserID,
			"products":      lines,
			"totalProducts": len(lines),
		})
	})

	f.Server = httptest.NewServer(mux)
	return f
}

func (f *fakeCatalog) cartPosts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts
}

type TestEnv struct {
	*httptest.Server
	Catalog  *fakeCatalog
	Registry *store.Registry
	client   *http.Client
}

type envOpts struct {
	syncCart bool
	limiter  *rate.Limiter
}

func NewTestEnv(t *testing.T, opts envOpts) *TestEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cat := newFakeCatalog()
	t.Cleanup(cat.Close)

	sm := scs.New()
	sm.Lifetime = time.Hour

	reg := store.NewRegistry(log, sm.Lifetime)
	t.Cleanup(reg.Stop)

	mux := api.APIMux(api.APIConfig{
		Log:      log,
		Session:  sm,
		Registry: reg,
		Catalog:  catalog.New(cat.URL, time.Second, catalog.NewMemoryCache(time.Minute), log),
		Limiter:  opts.limiter,
		UserID:   1,
		SyncCart: opts.syncCart,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	env := &TestEnv{Server: srv, Catalog: cat, Registry: reg}
	return env.NewSession(t)
}

// NewSession returns env seen from a client with no cookies yet.
func (env *TestEnv) NewSession(t *testing.T) *TestEnv {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}

	cp := *env
	cp.client = &http.Client{Transport: env.Server.Client().Transport, Jar: jar}
	return &cp
}

// do sends a request with an optional JSON body and decodes the JSON answer
// into out when the status matches.
func (env *TestEnv) do(t *testing.T, method, path string, body interface{}, status int, out interface{}) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatal(err)
			}
			rd = bytes.NewReader(raw)
		}
	}

	r, err := http.NewRequest(method, env.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w, err := env.client.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	raw, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatal(err)
	}

	if w.StatusCode != status {
		t.Fatalf("%s %s: expected status %d, but got %s: %s", method, path, status, w.Status, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("%s %s: cannot unmarshal %s: %v", method, path, raw, err)
		}
	}
}
