package load

import "encoding/binary"

// Auxiliary vector tags passed to the loaded program.
const (
	AT_NULL   = 0
	AT_PHDR   = 3
	AT_PHENT  = 4
	AT_PHNUM  = 5
	AT_PAGESZ = 6
	AT_ENTRY  = 9
	AT_RANDOM = 25
)

// An AuxEntry is one auxiliary vector entry.
type AuxEntry struct {
	Tag, Val uint32
}

// A LaunchContext is everything the trampoline needs to start the loaded
// program.
type LaunchContext struct {
	Args     []string // argv, Args[0] is the program path
	Env      []string // envp
	Entry    uintptr  // entry point
	Phdr     uintptr  // address of the program headers in memory, or 0
	Phnum    int      // number of program headers
	PageSize uintptr
}

// Aux returns the auxiliary vector for the context, without AT_RANDOM and
// the terminating AT_NULL.
func (c *LaunchContext) Aux() []AuxEntry {
	var aux []AuxEntry
	if c.Phdr != 0 {
		aux = append(aux,
			AuxEntry{AT_PHDR, uint32(c.Phdr)},
			AuxEntry{AT_PHENT, 32},
			AuxEntry{AT_PHNUM, uint32(c.Phnum)})
	}
	return append(aux,
		AuxEntry{AT_PAGESZ, uint32(c.PageSize)},
		AuxEntry{AT_ENTRY, uint32(c.Entry)})
}

// A Launcher transfers control to a loaded program. On success Launch does not
// return; an error means the transfer could not be set up.
type Launcher interface {
	Launch(c LaunchContext) error
}

// BuildStack lays out the i386 initial process stack ending at top: argc,
// argv pointers, NULL, envp pointers, NULL, auxiliary vector, AT_NULL, then
// the strings and random bytes. It returns the stack contents, which start at
// the returned stack pointer. The stack pointer is 16-byte aligned.
func BuildStack(top uint32, args, env []string, aux []AuxEntry, random []byte) (image []byte, sp uint32) {
	strSize := uint32(len(random))
	for _, s := range args {
		strSize += uint32(len(s)) + 1
	}
	for _, s := range env {
		strSize += uint32(len(s)) + 1
	}
	strStart := top - strSize
	naux := len(aux) + 1
	if random != nil {
		naux++
	}
	nwords := uint32(1 + len(args) + 1 + len(env) + 1 + 2*naux)
	sp = (strStart - nwords*4) &^ 15
	image = make([]byte, top-sp)

	le := binary.LittleEndian
	words := image[:0]
	put := func(v uint32) { words = le.AppendUint32(words, v) }
	strs := image[strStart-sp : strStart-sp]
	addr := strStart
	putStr := func(s string) {
		put(addr)
		strs = append(strs, s...)
		strs = append(strs, 0)
		addr += uint32(len(s)) + 1
	}

	put(uint32(len(args)))
	for _, s := range args {
		putStr(s)
	}
	put(0)
	for _, s := range env {
		putStr(s)
	}
	put(0)
	for _, a := range aux {
		put(a.Tag)
		put(a.Val)
	}
	if random != nil {
		put(AT_RANDOM)
		put(addr)
		strs = append(strs, random...)
	}
	put(AT_NULL)
	put(0)
	return image, sp
}
