package api

import "net/http"

func Router(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", h.Health)

	mux.HandleFunc("POST /v1/charges/cancel", h.CancelCharge)
	mux.HandleFunc("POST /v1/charges/update", h.UpdateCharge)

	mux.HandleFunc("GET /v1/whatsapp/connections", h.ListConnections)
	mux.HandleFunc("POST /v1/whatsapp/connections", h.CreateConnection)
	mux.HandleFunc("GET /v1/whatsapp/connections/{id}/qr", h.ConnectionQR)
	mux.HandleFunc("GET /v1/whatsapp/connections/{id}/qr.png", h.ConnectionQRImage)
	mux.HandleFunc("GET /v1/whatsapp/connections/{id}/status", h.ConnectionStatus)
	mux.HandleFunc("POST /v1/whatsapp/connections/{id}/messages", h.SendMessage)
	mux.HandleFunc("POST /v1/whatsapp/connections/{id}/reminders", h.SendReminders)

	mux.HandleFunc("GET /v1/poller/status", h.PollerStatus)
	mux.HandleFunc("POST /v1/poller/start", h.PollerStart)
	mux.HandleFunc("POST /v1/poller/stop", h.PollerStop)

	mux.HandleFunc("GET /v1/clients", h.ListClients)
	mux.HandleFunc("POST /v1/clients", h.CreateClient)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeError(w, http.StatusNotFound, "rota não encontrada")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pagoupix-api"))
	})

	return mux
}
