// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator and translates
// field errors into the VALIDATION_ERROR shape the API returns. Every
// inbound document and request DTO goes through it: dataset uploads,
// compute requests, token requests.
//
// # Quick Start
//
//	type ComputeRequest struct {
//	    Revision uint64 `json:"revision"`
//	    TopN     int    `json:"top_n" validate:"gte=0,lte=1000"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req ComputeRequest
//	    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	        return
//	    }
//	}
//
// The validator caches struct reflection information, so the first
// validation of a type pays for reflection and later ones reuse it.
//
// # See Also
//
//   - internal/dataset: upload document validation
//   - internal/api: request handlers using validation
//   - github.com/go-playground/validator/v10: underlying library
package validation
