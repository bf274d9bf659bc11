package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/filebridge/filebridge/internal/codec"
	"github.com/filebridge/filebridge/internal/config"
	"github.com/filebridge/filebridge/internal/service"
	"github.com/filebridge/filebridge/internal/utils/jwt"
)

type Handler struct {
	files    service.FileService
	pool     *service.SessionPool
	streamer *service.Streamer
	codec    *codec.Codec
	jwt      jwt.JwtService
	cfg      *config.Config
}

func New(files service.FileService, pool *service.SessionPool, streamer *service.Streamer, codec *codec.Codec, jwt jwt.JwtService, cfg *config.Config) *Handler {
	return &Handler{files, pool, streamer, codec, jwt, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Print(err.Error())
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
}

// parseIntParam parses an integer parameter from a string and returns a meaningful error
func parseIntParam(param string, paramName string) (int, error) {
	val, err := strconv.Atoi(param)
	if err != nil {
		return 0, &paramError{paramName}
	}
	return val, nil
}

type paramError struct {
	name string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + ": must be an integer"
}
