// Package google signs users in with Google and reads their spreadsheets.
//
// # Sign-in
//
// [OAuthClient] wraps an [oauth2.Config] for Google's endpoints. The CLI
// uses [OAuthClient.LoginLoopback], which opens the consent page in a
// browser and receives the authorization code on a 127.0.0.1 redirect
// (PKCE protected). Web deployments drive the same exchange with
// [OAuthClient.AuthorizationURL] and [OAuthClient.ExchangeCode]. The
// device authorization grant is available through
// [OAuthClient.RequestDeviceCode] and [OAuthClient.PollForToken] for
// profile-only sign-in on input constrained hosts.
//
// # Profile
//
// [ProfileClient] queries the OpenID Connect userinfo endpoint. A failed
// lookup is never fatal: callers fall back to [PlaceholderProfile].
//
// # Sheets
//
// [SheetsClient] calls spreadsheets.values.get and returns rows as
// formatted strings:
//
//	sheets := google.NewSheetsClient(google.WithHTTPClient(oauth.HTTPClient(ctx, tok)))
//	vr, err := sheets.Values(ctx, spreadsheetID, google.DefaultRange, false)
package google
