package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/irsalhamdi/shop-state/core/cart"
	"github.com/irsalhamdi/shop-state/core/product"
	"github.com/sirupsen/logrus"
)

type fakeAPI struct {
	*httptest.Server
	hits     int64
	mu       sync.Mutex
	cartBody string
	lastCart []byte
}

func (f *fakeAPI) setCartBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cartBody = body
}

func (f *fakeAPI) sentCart() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCart
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{
		cartBody: `{"id": 51, "userId": 1, "products": [{"id": 1, "title": "Mascara", "price": 9.99, "quantity": 1}]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.hits, 1)
		io.WriteString(w, `{"products": [{"id": 1, "title": "Mascara", "category": "beauty", "price": 9.99},
			{"id": 2, "title": "Apple", "category": "groceries", "price": 1.99}], "total": 2}`)
	})
	mux.HandleFunc("/products/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.hits, 1)
		if r.URL.Query().Get("q") != "red lipstick" {
			io.WriteString(w, `{"products": []}`)
			return
		}
		io.WriteString(w, `{"products": [{"id": 3, "title": "Red Lipstick", "category": "beauty", "price": 12.99}]}`)
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.hits, 1)
		io.WriteString(w, `{"id": 1, "title": "Mascara", "category": "beauty", "price": 9.99, "thumbnail": "m.png"}`)
	})
	mux.HandleFunc("/products/404", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Product with id '404' not found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/carts/add", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastCart = body
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, f.cartBody)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func quiet() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestClientListAndCache(t *testing.T) {
	api := newFakeAPI(t)
	c := New(api.URL+"/", time.Second, NewMemoryCache(time.Minute), quiet())
	ctx := context.Background()

	ps, err := c.List(ctx)
	if err != nil {
		t.Fatalf("listing products: %v", err)
	}
	if len(ps) != 2 || ps[0].Title != "Mascara" {
		t.Fatalf("unexpected products %+v", ps)
	}

	if _, err := c.Search(ctx, "   "); err != nil {
		t.Fatalf("searching blank query: %v", err)
	}
	if got := atomic.LoadInt64(&api.hits); got != 1 {
		t.Fatalf("expected a blank search to reuse the cached listing, but the API was hit %d times", got)
	}
}

func TestClientSearch(t *testing.T) {
	api := newFakeAPI(t)
	c := New(api.URL, time.Second, NewMemoryCache(time.Minute), quiet())

	ps, err := c.Search(context.Background(), "red lipstick")
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
	if len(ps) != 1 || ps[0].ID != 3 {
		t.Fatalf("unexpected products %+v", ps)
	}

	none, err := c.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected an empty non nil result, but got %#v", none)
	}
}

func TestClientFetch(t *testing.T) {
	api := newFakeAPI(t)
	c := New(api.URL, time.Second, NewMemoryCache(time.Minute), quiet())

	p, err := c.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("fetching product: %v", err)
	}
	if p.Thumbnail != "m.png" || p.Price.String() != "9.99" {
		t.Fatalf("unexpected product %+v", p)
	}

	if _, err := c.Fetch(context.Background(), 404); !errors.Is(err, product.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, but got %v", err)
	}
}

func TestClientAddToCart(t *testing.T) {
	api := newFakeAPI(t)
	c := New(api.URL, time.Second, NewMemoryCache(time.Minute), quiet())

	got, err := c.AddToCart(context.Background(), 1, []cart.ItemNew{{ProductID: 1, Quantity: 1}})
	if err != nil {
		t.Fatalf("adding to cart: %v", err)
	}
	if got.ID != 51 || got.TotalProducts != 1 || got.Items[0].Total.String() != "9.99" {
		t.Fatalf("unexpected cart %+v", got)
	}

	var sent struct {
		UserID   int `json:"userId"`
		Products []struct {
			ID       int `json:"id"`
			Quantity int `json:"quantity"`
		} `json:"products"`
	}
	if err := json.Unmarshal(api.sentCart(), &sent); err != nil {
		t.Fatalf("decoding request sent: %v", err)
	}
	if sent.UserID != 1 || len(sent.Products) != 1 || sent.Products[0].ID != 1 || sent.Products[0].Quantity != 1 {
		t.Fatalf("unexpected request %s", api.sentCart())
	}

	api.setCartBody(`{"id": 51, "userId": 1, "products": [{"id": 1, "quantity": 1}]}`)
	if _, err := c.AddToCart(context.Background(), 1, []cart.ItemNew{{ProductID: 1, Quantity: 1}}); !errors.Is(err, cart.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, but got %v", err)
	}

	api.setCartBody(`not json`)
	if _, err := c.AddToCart(context.Background(), 1, []cart.ItemNew{{ProductID: 1, Quantity: 1}}); !errors.Is(err, cart.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, but got %v", err)
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	m := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"))
	if v, ok := m.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Fatalf("expected a fresh entry, but got %q %v", v, ok)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("expected the entry to expire")
	}

	m.Set(ctx, "other", []byte("v"))
	m.mu.RLock()
	n := len(m.entries)
	m.mu.RUnlock()
	if n != 1 {
		t.Fatalf("expected expired entries to be dropped on write, but %d remain", n)
	}
}
