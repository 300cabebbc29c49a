// Package claims implements the claim intake and adjudication core for the
// Aarogya insurance portal: account registration, JWT session issuance and
// validation, and the claim lifecycle (submit, list, insurer review).
//
// Authentication and authorization are two distinct layers on purpose:
//   - The jwtware middleware gates every claim route on token validity only.
//   - Role checks live inside the lifecycle operations; Review is the single
//     insurer-only operation, Submit and ListClaims accept any valid session.
//
// Persistence goes through Bun repositories exposed by RepositoryManager.
// Tokens are stateless HS256 JWTs with a fixed one hour expiry; there is no
// revocation list, a token stays valid until it expires.
package claims
