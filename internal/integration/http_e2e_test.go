//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpserver "github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/http_server"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/listing"
	redisad "github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/redis"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/app"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/client"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/i18n"
	mysqlrepo "github.com/groundscriptdev/goldenkeypro-sub000/internal/storage/mysql"
)

// ---------- helpers ----------

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "migrations")
	}
	files, _ := filepath.Glob(filepath.Join(dir, "*.sql"))
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=goldenkey"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/goldenkey?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)
	return db
}

// upstream serves a listing API in the legacy flat shape.
func upstream(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/properties":
			_, _ = w.Write([]byte(`{"count":2,"results":[
				{"id":"p1","title":"Ocean View","price":"$450,000","status":"for_sale","city":"Panama City","latitude":8.97,"longitude":-79.51},
				{"id":"p2","title":"Highland Cabin","financials":{"price":180000,"currency":"USD"},"status":"available","location":{"city":"Boquete"}}
			]}`))
		case strings.HasPrefix(r.URL.Path, "/properties/p1"):
			_, _ = w.Write([]byte(`{"id":"p1","title":"Ocean View","price":450000}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// ---------- the test ----------

func TestHTTP_EndToEnd_SearchAndBook(t *testing.T) {
	var hits atomic.Int32
	up := upstream(t, &hits)

	mr := miniredis.RunT(t)
	cache := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	lc, err := listing.New(up.URL, "", 50)
	if err != nil {
		t.Fatal(err)
	}
	cat := i18n.MustLoad()
	repo := mysqlrepo.New(startMySQL(t))

	srv := httpserver.New(zerolog.Nop(), []string{"*"})
	srv.MountHandlers(&httpserver.Handlers{
		Q:        app.NewQueryService(lc, cache, time.Minute),
		Bookings: app.NewBookingService(repo, cat, zerolog.Nop()),
		Lang:     cat,
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// search twice: the second one is served from redis
	for i := 0; i < 2; i++ {
		res, err := http.Get(ts.URL + "/v1/properties?city=Panama+City&lang=es")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		var body struct {
			Count   int                     `json:"count"`
			Results []domain.PropertyRecord `json:"results"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		res.Body.Close()
		if body.Count != 2 || body.Results[0].Status != domain.StatusForSale || *body.Results[0].Price != 450000 {
			t.Fatalf("unexpected body: %+v", body)
		}
		if body.Results[1].Location.City != "Boquete" {
			t.Fatalf("nested shape not normalized: %+v", body.Results[1])
		}
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("upstream hits = %d, want 1", n)
	}

	// book through the typed client used by the CLI
	bc, err := client.New(ts.URL, client.WithLanguage("es"))
	if err != nil {
		t.Fatal(err)
	}
	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	conf, err := bc.Submit(context.Background(), domain.BookingRequest{
		ConsultationType: "relocation",
		Name:             "Ana",
		Email:            "ana@example.com",
		Phone:            "+507 6000-0000",
		Date:             date,
		TimeSlot:         "10:00",
		Timezone:         "America/Panama",
		Consent:          true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	stored, err := repo.GetBooking(context.Background(), conf.Reference)
	if err != nil || stored.Request.Locale != "es" {
		t.Fatalf("stored: %+v err=%v", stored, err)
	}
}
