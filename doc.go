// Package octrie implements a multibit trie for longest-prefix-match (LPM)
// lookup over IPv4 and IPv6 prefixes.
//
// The trie uses an 8-bit stride per level: each node covers one octet of the
// address and stores its up-to-255 inner prefixes in a popcount-compressed
// sparse array, indexed by a complete-binary-tree mapping of (octet,
// prefix-length) pairs. Single prefixes that would otherwise occupy a chain
// of near-empty nodes are path-compressed into leaves (a full prefix/value
// pair) or fringes (a value whose prefix length falls exactly on a stride
// boundary, acting as a default route for its octet).
//
// [Table] is the mutable façade over one v4 and one v6 root node. It is not
// safe for concurrent mutation; concurrent readers over a fixed snapshot are
// safe. The *Persist family of methods (InsertPersist, DeletePersist,
// UpdatePersist) implement copy-on-write: every node on the mutation path is
// cloned and a new Table is returned, while the original Table and any other
// outstanding Table sharing untouched subtrees remain valid. [SyncTable]
// wraps this persistent API behind an atomic pointer for lock-free readers.
package octrie
