package handlers

import (
	"encoding/json"
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeError maps the gRPC code of a registered error to an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch status.Code(err) {
	case codes.NotFound:
		code = http.StatusNotFound
	case codes.InvalidArgument:
		code = http.StatusBadRequest
	}
	http.Error(w, err.Error(), code)
}

func tokenVars(r *http.Request) (types.ContractHash, sdkmath.Uint, error) {
	vars := mux.Vars(r)
	collection, err := types.ParseContractHash(vars["collection"])
	if err != nil {
		return types.ContractHash{}, sdkmath.Uint{}, err
	}
	tokenID, err := sdkmath.ParseUint(vars["token_id"])
	if err != nil {
		return types.ContractHash{}, sdkmath.Uint{}, status.Errorf(codes.InvalidArgument, "invalid token id %q", vars["token_id"])
	}
	return collection, tokenID, nil
}
