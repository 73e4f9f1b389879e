package stopmerge

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash"
)

// Hash calculates a hash of the table content using the provided hash function.
//
// The header and every cell are hashed in order. The File field is ignored.
func (t *Table) Hash(h hash.Hash) {
	s := hasher{h: h}
	s.table(t)
	s.flush()
}

type hasher struct {
	h hash.Hash
	b bytes.Buffer
}

func (h *hasher) flush() {
	h.h.Write(h.b.Bytes())
	h.b.Reset()
}

func (h *hasher) table(t *Table) {
	h.strings(t.Header.columns)
	h.number(uint64(len(t.Records)))
	for i := range t.Records {
		h.strings(t.Records[i].cells)
	}
}

func (h *hasher) strings(s []string) {
	h.number(uint64(len(s)))
	for _, v := range s {
		h.string(v)
	}
}

func (h *hasher) string(s string) {
	h.number(uint64(len(s)))
	h.flush()
	h.h.Write([]byte(s))
}

func (h *hasher) number(a any) {
	err := binary.Write(&h.b, binary.LittleEndian, a)
	if err != nil {
		panic(fmt.Sprintf("failed to hash %T", a))
	}
}
