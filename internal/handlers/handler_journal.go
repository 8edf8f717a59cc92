package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/hotel_ledger/internal/core/ports/services"
	"github.com/SscSPs/hotel_ledger/internal/dto"
	"github.com/SscSPs/hotel_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries and their lifecycle.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	postingService portssvc.PostingSvc
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade, postingService portssvc.PostingSvc) *journalHandler {
	return &journalHandler{
		journalService: journalService,
		postingService: postingService,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, postingService portssvc.PostingSvc) {
	h := newJournalHandler(journalService, postingService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/cancel", h.cancelEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reversal", h.createReversal)
	}
}

// createEntry godoc
// @Summary Record a draft journal entry
// @Description Validates and stores a balanced DRAFT entry. Requires the create-entry capability.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry with at least two lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid, unbalanced or references unknown accounts"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Missing capability"
// @Failure 500 {object} dto.ErrorResponse "Failed to create journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err, "request format")
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Returns the entry header and its lines.
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	if _, ok := actorFromContext(c); !ok {
		return
	}

	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first. Use nextToken from the previous page to continue.
// @Tags journal-entries
// @Produce  json
// @Param   status query string false "Filter by status" Enums(DRAFT, POSTED, CANCELLED)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters or token"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list journal entries"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	if _, ok := actorFromContext(c); !ok {
		return
	}

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindError(c, err, "query parameters")
		return
	}

	entries, next, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(entries, next))
}

// cancelEntry godoc
// @Summary Cancel a draft journal entry
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Missing capability"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not a draft"
// @Failure 500 {object} dto.ErrorResponse "Failed to cancel journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/cancel [post]
func (h *journalHandler) cancelEntry(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	entry, err := h.journalService.CancelEntry(c.Request.Context(), actor, c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "cancel journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Atomically writes one general-ledger row per line and marks the entry POSTED.
// @Description The poster must hold post-entry and, unless disabled, must not be the entry's creator.
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Missing capability or separation of duties"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "ALREADY_POSTED or INVALID_TRANSITION"
// @Failure 503 {object} dto.ErrorResponse "Timed out; nothing was posted"
// @Failure 500 {object} dto.ErrorResponse "Failed to post journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	entry, err := h.postingService.Post(c.Request.Context(), actor, entryID)
	if err != nil {
		respondWithError(c, err, "post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// createReversal godoc
// @Summary Draft a reversal of a posted entry
// @Description Creates a DRAFT entry with every line's sides swapped. It must be posted separately.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Posted journal entry ID"
// @Param   reversal body dto.CreateReversalRequest false "Optional date and description"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Missing capability"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not posted or is itself a reversal"
// @Failure 500 {object} dto.ErrorResponse "Failed to create reversal"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/reversal [post]
func (h *journalHandler) createReversal(c *gin.Context) {
	var req dto.CreateReversalRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondWithBindError(c, err, "request format")
			return
		}
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateReversal(c.Request.Context(), actor, c.Param("entryID"), req)
	if err != nil {
		respondWithError(c, err, "create reversal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
