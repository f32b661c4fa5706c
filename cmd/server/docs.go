// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

// Package main provides the Conventus HTTP server
//
// Conventus scores group activities against member calendars and
// serves ranked per-group recommendations.
//
// @title Conventus API
// @version 1.0
// @description Group activity recommendation engine scoring activities against member availability
// @description
// @description ## Features
// @description
// @description - **Revisioned Datasets**: Upload user/group/activity documents, roll back to any revision
// @description - **Recommendation Runs**: Per-group ranked lists combining slot and activity scores
// @description - **Run Archive**: DuckDB-backed history with group trends and top activities
// @description - **Real-time Updates**: WebSocket notifications for completed runs and dataset changes
// @description - **Webhooks**: Signed run-completed deliveries with circuit breaking
// @description
// @description ## Authentication
// @description
// @description In token mode, exchange an API key for a short-lived JWT at `/api/v1/auth/token`
// @description and send it as a Bearer token on subsequent requests.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address. Compute and upload
// @description endpoints carry stricter per-endpoint limits.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-02T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/conventus/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8245
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token. Obtain via /api/v1/auth/token endpoint.
//
// @tag.name Datasets
// @tag.description Revisioned dataset upload, listing, activation, and deletion
//
// @tag.name Recommendations
// @tag.description Recommendation runs and per-group ranked lists
//
// @tag.name History
// @tag.description Archived run queries, group trends, and top activities
//
// @tag.name Core
// @tag.description Health checks and system status
//
// @tag.name Auth
// @tag.description Token issuance
//
// @tag.name Realtime
// @tag.description WebSocket connection for live run notifications
package main
