// Command cabi exposes the trie through a C ABI: integer addresses in
// network byte order for IPv4, a 16-byte buffer for IPv6, and a
// machine-word payload. The table's lifetime is bounded by
// bart_create/bart_destroy; handles are opaque to C and only ever
// dereferenced on this side of the boundary. Build with
// `go build -buildmode=c-shared` (or c-archive) to produce a linkable
// library.
package main

/*
#include <stdint.h>

typedef struct Table Table;
*/
import "C"

import (
	"net/netip"
	"runtime/cgo"
	"unsafe"

	"github.com/arafel/octrie"
)

// bart_create allocates a new, empty table and returns an opaque handle to
// it. The handle must be released with bart_destroy.
//
//export bart_create
func bart_create() *C.Table {
	h := cgo.NewHandle(octrie.NewTable[uintptr]())
	return (*C.Table)(unsafe.Pointer(uintptr(h)))
}

// bart_destroy releases a handle returned by bart_create. Using t after
// this call is undefined behavior.
//
//export bart_destroy
func bart_destroy(t *C.Table) {
	cgo.Handle(uintptr(unsafe.Pointer(t))).Delete()
}

func tableOf(t *C.Table) *octrie.Table[uintptr] {
	return cgo.Handle(uintptr(unsafe.Pointer(t))).Value().(*octrie.Table[uintptr])
}

// bart_insert4 inserts ip_be/prefix_len (prefix_len <= 32) with value,
// returning 0 on success. A prefix_len outside [0,32] is a no-op that
// still reports success, per the shim's contract.
//
//export bart_insert4
func bart_insert4(t *C.Table, ipBE C.uint32_t, prefixLen C.uint8_t, value C.uintptr_t) C.int {
	if prefixLen > 32 {
		return 0
	}

	var buf [4]byte
	buf[0] = byte(ipBE >> 24)
	buf[1] = byte(ipBE >> 16)
	buf[2] = byte(ipBE >> 8)
	buf[3] = byte(ipBE)

	pfx := netip.PrefixFrom(netip.AddrFrom4(buf), int(prefixLen))
	tableOf(t).Insert(pfx, uintptr(value))
	return 0
}

// bart_insert6 inserts addr/prefix_len (prefix_len <= 128) with value.
//
//export bart_insert6
func bart_insert6(t *C.Table, addr *C.uint8_t, prefixLen C.uint8_t, value C.uintptr_t) C.int {
	if prefixLen > 128 {
		return 0
	}

	var buf [16]byte
	copy(buf[:], unsafe.Slice((*byte)(unsafe.Pointer(addr)), 16))

	pfx := netip.PrefixFrom(netip.AddrFrom16(buf), int(prefixLen))
	tableOf(t).Insert(pfx, uintptr(value))
	return 0
}

// bart_lookup4 performs a longest-prefix match for ip_be. *found is set to
// 1 on a hit and 0 on a miss; the return value is only meaningful when
// *found == 1.
//
//export bart_lookup4
func bart_lookup4(t *C.Table, ipBE C.uint32_t, found *C.int) C.uintptr_t {
	var buf [4]byte
	buf[0] = byte(ipBE >> 24)
	buf[1] = byte(ipBE >> 16)
	buf[2] = byte(ipBE >> 8)
	buf[3] = byte(ipBE)

	val, ok := tableOf(t).Lookup(netip.AddrFrom4(buf))
	*found = boolToC(ok)
	return C.uintptr_t(val)
}

// bart_lookup6 performs a longest-prefix match for the 16-byte address at addr.
//
//export bart_lookup6
func bart_lookup6(t *C.Table, addr *C.uint8_t, found *C.int) C.uintptr_t {
	var buf [16]byte
	copy(buf[:], unsafe.Slice((*byte)(unsafe.Pointer(addr)), 16))

	val, ok := tableOf(t).Lookup(netip.AddrFrom16(buf))
	*found = boolToC(ok)
	return C.uintptr_t(val)
}

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func main() {}
