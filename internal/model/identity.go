package model

import (
	"fmt"
	"net/url"
	"strings"
)

// IdentityKey returns the duplicate-detection key for a listing.
//
// The key is the canonicalised listing URL when one is present. Some boards
// generate unstable URLs (or none at all) for the same posting, so listings
// without a usable URL fall back to a composite of title, company and source.
func IdentityKey(rawURL, title, company string, source Source) string {
	if canonical := CanonicalURL(rawURL); canonical != "" {
		return canonical
	}
	return fmt.Sprintf("%s|%s|%s", strings.TrimSpace(title), strings.TrimSpace(company), source)
}

// identityParams lists query parameters that address a posting rather than
// track a click. Indeed has no per-job path: listings live at
// /viewjob?jk=<key>, so the job key must survive canonicalisation or every
// Indeed posting collapses into one identity.
var identityParams = []string{"jk"}

// CanonicalURL strips tracking query parameters and fragments from a listing
// URL and lower-cases the scheme and host, so that tracking parameters
// appended by the job board do not defeat deduplication. Query parameters
// that identify the posting itself are kept. Returns "" for unparseable or
// empty input.
func CanonicalURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = identityQuery(u.Query())
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

func identityQuery(q url.Values) string {
	kept := url.Values{}
	for _, p := range identityParams {
		if v := q.Get(p); v != "" {
			kept.Set(p, v)
		}
	}
	return kept.Encode()
}

// IdentityKey returns the duplicate-detection key for this raw listing.
func (r RawListing) IdentityKey() string {
	return IdentityKey(r.URL, r.Title, r.Company, r.Source)
}

// IdentityKey returns the duplicate-detection key for this posting.
func (j JobPosting) IdentityKey() string {
	return IdentityKey(j.URL, j.Title, j.Company, j.Source)
}
