package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
)

// The operator id normally comes from the session layer; authentication
// itself lives outside this service, so handlers trust this header.
const operatorHeader = "X-Operator-ID"

func operatorFromRequest(r *http.Request) (int64, error) {
	raw := r.Header.Get(operatorHeader)
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", operatorHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s header", operatorHeader)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ writeJSON: Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// parseIDFromPath extracts the numeric id segment after prefix, e.g.
// "/api/products/12" with prefix "/api/products/" yields 12. The
// remainder after the id (if any) is returned for sub-routes.
func parseIDFromPath(path, prefix string) (int64, string, error) {
	rest := path[len(prefix):]
	idStr := rest
	remainder := ""
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			idStr = rest[:i]
			remainder = rest[i:]
			break
		}
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid id parameter %q", idStr)
	}
	return id, remainder, nil
}
