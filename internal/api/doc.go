// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the docchat backend.
//
// The backend is an external REST service: it owns users, chat history, and
// document inference. This package owns nothing but the wire contract:
//
//   - POST   /auth/login        form-encoded login -> access token
//   - POST   /auth/signup       multipart signup
//   - GET    /auth/me           resolve the current identity
//   - PUT    /auth/me           profile update (multipart)
//   - DELETE /auth/me           account deletion
//   - GET    /history/user/{id} chat summaries for one owner
//   - GET    /history/{chatId}  full transcript
//   - DELETE /history/{chatId}  delete a chat
//   - POST   /query/            ask a question about the uploaded documents
//   - POST   /chat/save/        persist a finished chat
//
// Every request is built through a single helper that attaches
// "Authorization: Bearer <token>" from the credential store; that helper is
// the only place the credential is read for network use.
package api
