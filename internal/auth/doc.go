// Package auth obtains API sessions for the streaming platform.
//
// A session is read from a TokenCache (a JSON file or a shared Redis key)
// when a valid one exists. Otherwise a browser is driven through the
// platform's OpenID Connect login and the session object exposed by the
// authenticated page is captured, stamped with an expiry taken from the
// token's JWT claims and written back to the cache.
package auth
