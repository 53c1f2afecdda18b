package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"log/slog"
	nethttp "net/http"
	"strconv"

	"github.com/preston-bernstein/league-service/internal/app/csvio"
	"github.com/preston-bernstein/league-service/internal/http/respond"
	"github.com/preston-bernstein/league-service/internal/logging"
)

const maxImportBytes = 8 << 20

// ExportCSV streams every player as a CSV download.
func (h *Handler) ExportCSV(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	var buf bytes.Buffer
	n, err := h.svc.Transfer.Export(r.Context(), &buf)
	if err != nil {
		h.write(w, r, nethttp.StatusOK, "", nil, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="players.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(nethttp.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Warn(logger, "csv export write failed", slog.Any("err", err))
		return
	}
	logging.Info(logger, "csv exported", slog.Int(logging.FieldCount, n))
}

// ImportCSV replaces player records from an uploaded CSV body.
func (h *Handler) ImportCSV(w nethttp.ResponseWriter, r *nethttp.Request) {
	body := nethttp.MaxBytesReader(w, r.Body, maxImportBytes)
	res, err := h.svc.Transfer.Import(r.Context(), body)
	var parseErr *csv.ParseError
	if errors.Is(err, csvio.ErrNoHeader) || errors.As(err, &parseErr) {
		respond.Error(w, r, nethttp.StatusBadRequest, err.Error(), loggerFromContext(r, h.logger))
		return
	}
	var tooLarge *nethttp.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Error(w, r, nethttp.StatusRequestEntityTooLarge, "import file is too large", loggerFromContext(r, h.logger))
		return
	}
	h.write(w, r, nethttp.StatusOK, "", res, err)
}
