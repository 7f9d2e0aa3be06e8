package cmd

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jsphweid/digiscore/constants"
	"github.com/jsphweid/digiscore/logger"
	"github.com/jsphweid/digiscore/melody"
	"github.com/jsphweid/digiscore/midi"
	"github.com/jsphweid/digiscore/model"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// uploads larger than this are rejected
const maxUploadBytes = 16 << 20

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves melody extraction over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := constants.GetAddr()
		logger.Info("Listening", logger.Fields{"addr": addr})
		return http.ListenAndServe(addr, NewHandler(melody.ConfigFromEnv()))
	},
}

func NewHandler(cfg melody.Config) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/melody", handleMelody(cfg)).Methods("POST")
	router.HandleFunc("/analyze", handleAnalyze(cfg)).Methods("POST")
	router.HandleFunc("/health", handleHealth).Methods("GET")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Could not write response", logger.Fields{"error": err.Error()})
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func readDocument(r *http.Request) (*model.Document, error) {
	dat, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		return nil, errors.Wrap(err, "reading request body")
	}
	return midi.LoadBytes(dat)
}

func handleMelody(cfg melody.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := readDocument(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		res, err := melody.Extract(doc, cfg)
		if errors.Is(err, melody.ErrNoCandidateTrack) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		dat, err := midi.Bytes(res)
		if err != nil {
			logger.Error("Could not encode melody", err, logger.Fields{"command": "serve"})
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		w.Header().Set("Content-Type", "audio/midi")
		w.WriteHeader(http.StatusOK)
		w.Write(dat)
	}
}

func handleAnalyze(cfg melody.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := readDocument(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, analyze(doc, cfg))
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}
