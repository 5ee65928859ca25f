// Package refcache builds and serves the monthly exclusion reference cache.
//
// Each month the raw OIG LEIE and SAM.gov exclusion exports are loaded once
// into a sqlite database with separate people and entity tables per source.
// Screening runs open the cache read-only and query it by normalized last
// name or entity name. A cache is immutable once built; rebuilding a month
// requires removing its database first.
package refcache
