package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/status", handler.GetStatus)
	mux.HandleFunc("GET /v1/ticker", handler.GetTicker)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/session", handler.GetSession)
	mux.HandleFunc("PUT /v1/session/name", handler.SetSessionName)
}

func registerCourtRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/courts", handler.ListCourts)
	mux.HandleFunc("GET /v1/courts/stats", handler.GetCourtStats)
	mux.HandleFunc("GET /v1/courts/{courtID}", handler.GetCourt)
	mux.HandleFunc("GET /v1/occupancy", handler.GetOccupancy)
	mux.HandleFunc("POST /v1/occupancy/refresh", handler.RefreshOccupancy)
}

func registerCheckInRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/checkins", handler.CheckIn)
	mux.HandleFunc("DELETE /v1/checkins/current", handler.CheckOut)
}

func registerBroadcastRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/broadcasts", handler.ListBroadcasts)
	mux.HandleFunc("POST /v1/broadcasts", handler.PublishBroadcast)
	mux.HandleFunc("POST /v1/broadcasts/{broadcastID}/dismiss", handler.DismissBroadcast)
}

func registerChatRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/chat", handler.GetChat)
	mux.HandleFunc("PUT /v1/chat/scope", handler.SelectChatScope)
	mux.HandleFunc("POST /v1/chat/messages", handler.SendChatMessage)
	mux.HandleFunc("POST /v1/chat/panel", handler.SetChatPanel)
}
