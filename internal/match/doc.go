// Package match decides whether normalized roster identities correspond to
// excluded individuals or entities in the reference cache.
//
// Person matching follows a confirmation ladder over OIG records (exact or
// high-similarity first name corroborated by date of birth) and a strict
// SAM policy that confirms only on exact names with location corroboration.
// Entity matching confirms on exact normalized names and raises manual
// review items for high-similarity candidates with secondary signals. The
// vendor classifier decides whether a vendor row should be screened as an
// entity, as an individual, or as both.
package match
