package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/madurogg/libprizepool-go/config"
	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/observability"
	"github.com/madurogg/libprizepool-go/payout"
	"github.com/madurogg/libprizepool-go/player"
	"github.com/madurogg/libprizepool-go/treasury"
	"github.com/madurogg/libprizepool-go/wallet"
)

// ledgerFile is the bbolt database inside the data directory.
const ledgerFile = "ledger.db"

// env is everything a command needs after config, logging and the ledger
// are set up.
type env struct {
	cfg      config.Config
	program  identity.Identity
	log      *slog.Logger
	logOut   io.Closer
	metrics  *observability.Metrics
	store    *ledger.BoltStore
	engine   *treasury.Engine
	registry *player.Registry
	out      io.Writer
	json     bool
}

// loadConfig reads {datadir}/config and applies flag and environment
// overrides on top of it. Keys without a flag (logfile, metricsfile,
// maxround, maxroundfixed, minholding) come from PRIZEPOOL_<KEY>.
func loadConfig(v *viper.Viper) (config.Config, error) {
	dataDir := v.GetString("data-dir")
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	cfg, err := config.LoadConfig(config.ConfigPath(dataDir))
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return cfg, err
	}
	cfg.DataDir = dataDir

	overrides := map[string]*string{
		"network":     &cfg.Network,
		"program":     &cfg.Program,
		"mint":        &cfg.Mint,
		"log-level":   &cfg.LogLevel,
		"log-format":  &cfg.LogFormat,
		"logfile":     &cfg.LogFile,
		"metricsfile": &cfg.MetricsFile,
	}
	for key, field := range overrides {
		if s := v.GetString(key); s != "" {
			*field = s
		}
	}
	numeric := map[string]*uint64{
		"maxround":      &cfg.MaxRound,
		"maxroundfixed": &cfg.MaxRoundFixed,
		"minholding":    &cfg.MinHolding,
	}
	for key, field := range numeric {
		s := v.GetString(key)
		if s == "" {
			continue
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", key, err)
		}
		*field = n
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openEnv(v *viper.Viper, out io.Writer) (*env, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}
	program, err := identity.Parse(cfg.Program)
	if err != nil {
		return nil, err
	}

	logOut, err := observability.OpenLogOutput(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	logger := observability.SetupLogger(cfg.LogLevel, cfg.LogFormat, logOut)
	metrics := observability.NewMetrics()

	store, err := ledger.OpenBoltStore(filepath.Join(cfg.DataDir, ledgerFile))
	if err != nil {
		_ = logOut.Close()
		return nil, err
	}

	engine, err := treasury.New(store, program,
		treasury.WithLogger(logger),
		treasury.WithObserver(metrics),
	)
	if err != nil {
		_ = store.Close()
		_ = logOut.Close()
		return nil, err
	}

	return &env{
		cfg:      cfg,
		program:  program,
		log:      logger,
		logOut:   logOut,
		metrics:  metrics,
		store:    store,
		engine:   engine,
		registry: player.NewRegistry(store, time.Now),
		out:      out,
		json:     v.GetString("output") == "json",
	}, nil
}

// Close flushes metrics and releases the ledger.
func (e *env) Close() error {
	var errs []error
	if e.cfg.MetricsFile != "" {
		errs = append(errs, e.metrics.WriteTextfile(e.cfg.MetricsFile))
	}
	errs = append(errs, e.store.Close(), e.logOut.Close())
	return errors.Join(errs...)
}

// policy returns the payout policy for planned rounds.
func (e *env) policy() payout.Policy {
	policy := payout.DefaultPolicy()
	policy.MaxRoundBasisPoints = e.cfg.MaxRound
	policy.MaxRoundFixed = e.cfg.MaxRoundFixed
	policy.MinHolding = e.cfg.MinHolding
	return policy
}

// mint returns the configured token mint.
func (e *env) mint() (identity.Identity, error) {
	if e.cfg.Mint == "" {
		return identity.Zero, errors.New("no mint: pass --mint or set mint in the config file")
	}
	return identity.Parse(e.cfg.Mint)
}

// operatorKey unlocks the wallet and derives the selected operator key.
func operatorKey(v *viper.Viper, cfg config.Config) (*wallet.KeyPair, error) {
	seed, err := wallet.LoadSeed(cfg.DataDir, v.GetString("password"))
	if err != nil {
		return nil, fmt.Errorf("unlock wallet: %w", err)
	}
	network, err := wallet.GetNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	w, err := wallet.NewWallet(seed, network)
	if err != nil {
		return nil, err
	}
	state, err := wallet.LoadState(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	op, err := state.GetOperator(v.GetString("operator"))
	if err != nil {
		return nil, err
	}
	return w.DeriveOperatorKey(op.Index)
}

// signedCaller signs op and payload with the operator key and verifies the
// request, returning the identity the engine should treat as the caller.
func (e *env) signedCaller(v *viper.Viper, op string, payload any) (identity.Identity, error) {
	kp, err := operatorKey(v, e.cfg)
	if err != nil {
		return identity.Zero, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return identity.Zero, fmt.Errorf("encode request: %w", err)
	}
	req, err := identity.Sign(kp.PrivateKey, op, body, uint64(time.Now().UnixNano()))
	if err != nil {
		return identity.Zero, err
	}
	caller, err := identity.Verify(req)
	if err != nil {
		return identity.Zero, err
	}
	e.log.Debug("request signed", "op", op, "caller", caller.Short(), "nonce", req.Nonce)
	return caller, nil
}

// print writes v as JSON with --output json, otherwise calls text.
func (e *env) print(v any, text func(w io.Writer)) error {
	if e.json {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(e.out)
	return nil
}
