// Guidewiki - Game Guide Wiki and Interactive Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guidewiki

/*
Package auth provides sign-up, sign-in and sign-out, and identifies the
browser context each request belongs to.

Key Components:

  - HashPassword: SHA-256 hex digest computed before a password leaves the server
  - Service: calls the backend create_user and verify_login procedures and
    writes the resulting session into the session store
  - ContextTokens: HS256 JWTs naming a browser context, carried in an
    HTTP-only cookie
  - BrowserContext: middleware that reads or issues that cookie

Password Handling:

Plaintext passwords are digested as the first step of SignUp and SignIn.
Only the 64-character lowercase hex digest is sent to the backend, which
owns storage and comparison. Plaintext is never logged.

Error Classes:

  - backend.ErrNotConfigured: backend URL or API key missing
  - backend.ErrUsernameTaken: create_user reported a duplicate username
  - ErrInvalidCredentials: verify_login returned no user
  - anything else: transport or backend failure

UserMessage maps each class to the text shown on the login page.
*/
package auth
