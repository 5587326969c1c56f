// Command authflow-demo drives a full registration and login against an
// in-process backend stub, with tokens persisted through a redis-backed
// session store. It is a smoke harness for the library, not a product
// binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http/httptest"
	"os"
	"sort"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/domofonlab/authflow"
	"github.com/domofonlab/authflow/client"
	"github.com/domofonlab/authflow/internal/backendtest"
	"github.com/domofonlab/authflow/session"
)

func main() {
	var (
		phone     = flag.String("phone", "+7 (999) 123-45-67", "phone to register")
		username  = flag.String("username", "demo-user", "username to register")
		password  = flag.String("password", "Aa1!demo-pass", "password to register with")
		redisAddr = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix    = flag.String("prefix", "aft", "token key prefix")
	)
	flag.Parse()

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	var rdb *redis.Client
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cleanup = func() {
			_ = rdb.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", mr.Addr())
	} else {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = rdb.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	backend := backendtest.New()
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()
	fmt.Printf("backend stub at %s\n", srv.URL)

	api, err := client.New(client.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(1)
	}

	store := session.NewRedisStore(rdb, *prefix, time.Hour)
	metrics := authflow.NewMetrics()
	deviceID := session.NewDeviceID()

	cfg := authflow.DefaultConfig()
	cfg.CooldownTick = 10 * time.Millisecond

	if err := runRegistration(ctx, cfg, api, backend, metrics, *phone, *username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "registration: %v\n", err)
		os.Exit(1)
	}
	if err := runLogin(ctx, cfg, api, store, deviceID, metrics, *phone, *password); err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}

	tokens, err := store.Load(ctx, deviceID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load tokens: %v\n", err)
		os.Exit(1)
	}
	exp, _ := tokens.AccessExpiresAt()
	fmt.Printf("tokens persisted for device %s (access expires %s)\n", deviceID, exp.Format(time.RFC3339))

	fmt.Println("metrics:")
	snap := metrics.Snapshot()
	ids := make([]authflow.MetricID, 0, len(snap.Counters))
	for id := range snap.Counters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if snap.Counters[id] > 0 {
			fmt.Printf("  %-28v %d\n", id, snap.Counters[id])
		}
	}
}

func runRegistration(ctx context.Context, cfg authflow.Config, api client.API, backend *backendtest.Server, metrics *authflow.Metrics, phone, username, password string) error {
	flow, err := authflow.NewRegistrationFlow(cfg, authflow.Deps{API: api, Metrics: metrics})
	if err != nil {
		return err
	}
	defer flow.Close()

	flow.SetPhone(phone)
	if err := flow.SubmitPhone(ctx); err != nil {
		return fmt.Errorf("submit phone: %w", err)
	}
	fmt.Printf("code requested for %s (cooldown %ds)\n", flow.PhoneDigits(), flow.CooldownSeconds())

	// The stub exposes the issued code; a real app reads it from SMS.
	code := backend.LastCode(flow.PhoneDigits())
	flow.SetCode(code)
	if err := flow.SubmitCode(ctx); err != nil {
		return fmt.Errorf("submit code: %w", err)
	}
	fmt.Printf("code %s accepted, step=%s\n", code, flow.Step())

	flow.SetProfile(authflow.ProfileFields{FirstName: "Demo", LastName: "Resident", Email: "demo@example.ru"})
	if err := flow.SubmitProfile(); err != nil {
		return fmt.Errorf("submit profile: %w", err)
	}

	flow.SetUsername(username)
	flow.SetPassword(password)
	flow.SetPasswordConfirm(password)
	if err := flow.SubmitCredentials(ctx); err != nil {
		return fmt.Errorf("submit credentials: %w", err)
	}
	fmt.Printf("registered %s as %q\n", flow.PhoneDigits(), username)
	return nil
}

func runLogin(ctx context.Context, cfg authflow.Config, api client.API, store session.Store, deviceID string, metrics *authflow.Metrics, phone, password string) error {
	flow, err := authflow.NewLoginFlow(cfg, authflow.Deps{API: api, Store: store, DeviceID: deviceID, Metrics: metrics})
	if err != nil {
		return err
	}
	defer flow.Close()

	flow.SetPhone(phone)
	flow.SetPassword(password)
	if err := flow.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Printf("logged in, step=%s\n", flow.Step())
	return nil
}
