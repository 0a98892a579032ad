package load

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"moria.us/elfload/elf32"
)

var progHeader = []string{
	"Type", "Offset", "VirtAddr", "PhysAddr", "FileSiz", "MemSiz", "Flg", "Align", "Prot", "Mapping",
}

// progRow formats one program header with its derived protection and mapping
// flags.
func progRow(p elf32.Prog) []string {
	perms := Translate(p.Flags)
	return []string{
		p.Type.String(),
		fmt.Sprintf("0x%06x", p.Off),
		fmt.Sprintf("0x%08x", p.Vaddr),
		fmt.Sprintf("0x%08x", p.Paddr),
		fmt.Sprintf("0x%05x", p.Filesz),
		fmt.Sprintf("0x%05x (%s)", p.Memsz, humanize.IBytes(uint64(p.Memsz))),
		p.Flags.String(),
		fmt.Sprintf("0x%x", p.Align),
		fmt.Sprintf("%d (%v)", perms.Prot(), perms.Caps),
		fmt.Sprintf("%d (%v)", perms.Mode.Flags(), perms.Mode),
	}
}

// WriteProgTable writes a listing of the program header table, like
// readelf -l, with the protection and mapping flags each segment gets.
func WriteProgTable(w io.Writer, progs []elf32.Prog) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(progHeader)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, p := range progs {
		table.Append(progRow(p))
	}
	table.Render()
}
