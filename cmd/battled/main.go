// Command battled serves archived battle runs over HTTP and executes
// new ones on request. Event logs stream to observers over a
// websocket, one JSON record per message.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mwhiting/hexfront/internal/battle"
	"github.com/mwhiting/hexfront/internal/config"
	"github.com/mwhiting/hexfront/internal/logstore"
)

type server struct {
	scenario *config.Scenario
	store    *logstore.Store
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func main() {
	var addr string
	var scenarioPath string
	var dbPath string

	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&scenarioPath, "scenario", "", "path to scenario YAML (required)")
	flag.StringVar(&dbPath, "db", "battles.db", "SQLite archive path")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if scenarioPath == "" {
		log.Error("missing -scenario")
		os.Exit(1)
	}
	scenario, err := config.LoadScenario(scenarioPath)
	if err != nil {
		log.Error("load scenario", "err", err)
		os.Exit(1)
	}
	store, err := logstore.Open(dbPath)
	if err != nil {
		log.Error("open archive", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	s := &server{scenario: scenario, store: store, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/runs", s.handleListRuns).Methods(http.MethodGet)
	r.HandleFunc("/runs", s.handleStartRun).Methods(http.MethodPost)
	r.HandleFunc("/runs/{id}", s.handleGetRun).Methods(http.MethodGet)
	r.HandleFunc("/runs/{id}/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/runs/{id}/ws", s.handleEventStream).Methods(http.MethodGet)

	log.Info("listening", "addr", addr, "scenario", scenario.Name)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error("serve", "err", err)
		os.Exit(1)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.URL.Query().Get("scenario"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	info, err := s.store.Run(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.Events(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleStartRun executes one battle with the requested seed,
// archives it, and returns the run metadata.
func (s *server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	seed := uint64(time.Now().UnixNano())
	if q := r.URL.Query().Get("seed"); q != "" {
		v, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			http.Error(w, "bad seed", http.StatusBadRequest)
			return
		}
		seed = v
	}

	bs, err := s.scenario.Build(battle.WithSeed(seed))
	if err != nil {
		s.fail(w, err)
		return
	}
	outcome := bs.RunToEnd()
	score := battle.ScoreBattle(s.scenario.ScoreWeights(), outcome, bs.Tick, bs.A, bs.B)

	info := logstore.RunInfo{
		ID:        logstore.NewRunID(),
		Scenario:  s.scenario.Name,
		Seed:      seed,
		Outcome:   outcome.String(),
		Ticks:     bs.Tick,
		Score:     score.Total,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveRun(info, bs.Log.Records()); err != nil {
		s.fail(w, err)
		return
	}
	s.log.Info("run finished", "id", info.ID, "seed", seed, "outcome", outcome.String(), "ticks", bs.Tick)
	writeJSON(w, http.StatusCreated, info)
}

// handleEventStream replays an archived run's event log over a
// websocket, one record per message, paced by simulated tick.
func (s *server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.Events(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	pace := 0 * time.Millisecond
	if q := r.URL.Query().Get("pace_ms"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 {
			pace = time.Duration(v) * time.Millisecond
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	lastTick := -1
	for _, rec := range records {
		if pace > 0 && rec.Tick != lastTick {
			time.Sleep(pace)
			lastTick = rec.Tick
		}
		if err := conn.WriteJSON(rec); err != nil {
			return
		}
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"))
}

func (s *server) fail(w http.ResponseWriter, err error) {
	s.log.Error("request failed", "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
