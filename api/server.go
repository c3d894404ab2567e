package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/api/handlers"
)

// Server exposes read-only lookups of the marketplace state by exact key.
type Server struct {
	oh         handlers.OrderHandler
	eh         handlers.EscrowHandler
	listenAddr string
	logger     *zap.Logger
}

func NewServer(
	oh handlers.OrderHandler,
	eh handlers.EscrowHandler,
	address string,
	logger *zap.Logger,
) Server {
	return Server{
		oh:         oh,
		eh:         eh,
		listenAddr: address,
		logger:     logger.With(zap.String("module", "api")),
	}
}

func (s Server) Router() *mux.Router {
	router := mux.NewRouter()

	// Routes for orders
	router.HandleFunc("/sell_orders/{collection}/{token_id}", s.oh.GetSellOrder).Methods("GET")
	router.HandleFunc("/bids/{collection}/{token_id}", s.oh.GetBids).Methods("GET")
	router.HandleFunc("/bids/{collection}/{token_id}/{bidder}", s.oh.GetBid).Methods("GET")

	// Routes for escrow and fee config
	router.HandleFunc("/escrow", s.eh.GetEscrow).Methods("GET")
	router.HandleFunc("/fee", s.eh.GetFee).Methods("GET")

	return router
}

func (s Server) Start() {
	s.logger.Info("Starting server", zap.String("address", s.listenAddr))
	s.logger.Fatal("Server failed to start", zap.Error(http.ListenAndServe(s.listenAddr, s.Router())))
}
