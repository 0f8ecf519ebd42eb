// neurodex-load bulk-loads a study corpus from a JSONL file.
//
// Each line is one study:
//
//	{"study_id": "4154395",
//	 "contrasts": [{"contrast_id": "1", "terms": [{"term": "posterior cingulate", "weight": 0.94}]}],
//	 "coordinates": [{"x": 0, "y": -52, "z": 26}]}
//
// Terms are canonicalized at load time, so raw annotation exports can be fed
// in directly.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/neurodex/neurodex/internal/config"
	dbRedis "github.com/neurodex/neurodex/internal/db/redis"
	"github.com/neurodex/neurodex/internal/domain"
	logpkg "github.com/neurodex/neurodex/internal/logger"
	annotationrepo "github.com/neurodex/neurodex/internal/repository/annotations"
	coordinaterepo "github.com/neurodex/neurodex/internal/repository/coordinates"
	ingestuc "github.com/neurodex/neurodex/internal/usecase/ingest"
)

// Maximum size of a single JSONL line. Study records with thousands of
// annotations can exceed bufio's default 64K token limit.
const maxLineBytes = 4 * 1024 * 1024

type studyLine struct {
	StudyID   string `json:"study_id"`
	Contrasts []struct {
		ContrastID string `json:"contrast_id"`
		Terms      []struct {
			Term   string  `json:"term"`
			Weight float64 `json:"weight"`
		} `json:"terms"`
	} `json:"contrasts"`
	Coordinates []struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	} `json:"coordinates"`
}

func main() {
	var path string
	flag.StringVar(&path, "file", "", "path to the JSONL corpus file")
	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: neurodex-load -file corpus.jsonl")
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if err := run(path, cfg, logger); err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}
}

func run(path string, cfg config.Config, logger *zap.Logger) error {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return fmt.Errorf("create database store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	annRepo := annotationrepo.New(store, cfg.Storage.KeyPrefix)
	coordRepo := coordinaterepo.New(store, cfg.Storage.KeyPrefix)
	svc := ingestuc.New(annRepo, coordRepo)

	if err := svc.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	loaded := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var s studyLine
		if err := json.Unmarshal(line, &s); err != nil {
			return fmt.Errorf("line %d: parse study: %w", loaded+1, err)
		}

		if err := svc.PutStudy(ctx, toInput(s)); err != nil {
			return fmt.Errorf("line %d: %w", loaded+1, err)
		}

		loaded++
		if loaded%1000 == 0 {
			logger.Info("Loading corpus", zap.Int("studies", loaded))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read corpus file: %w", err)
	}

	logger.Info("Corpus loaded",
		zap.Int("studies", loaded),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func toInput(s studyLine) ingestuc.StudyInput {
	in := ingestuc.StudyInput{ID: domain.StudyID(s.StudyID)}
	for _, c := range s.Contrasts {
		ci := ingestuc.ContrastInput{ID: c.ContrastID}
		for _, t := range c.Terms {
			ci.Terms = append(ci.Terms, domain.TermWeight{Term: t.Term, Weight: t.Weight})
		}
		in.Contrasts = append(in.Contrasts, ci)
	}
	for _, p := range s.Coordinates {
		in.Coordinates = append(in.Coordinates, domain.Coordinate{X: p.X, Y: p.Y, Z: p.Z})
	}
	return in
}
