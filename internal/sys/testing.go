// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"testing"
)

// TestELF describes a minimal ELF file written by [WriteTestELF].
type TestELF struct {
	// Class of the file. Zero value means [elf.ELFCLASS32]. Files of other
	// classes are written without any sections.
	Class elf.Class
	// Static files have no dynamic section.
	Static  bool
	Needed  []string
	Rpath   []string
	Runpath []string
}

// WriteTestELF writes a minimal little-endian ELF file as described by spec to
// the given path. The file has no program headers and only the sections
// required for reading dynamic section entries.
func WriteTestELF(tb testing.TB, path string, spec TestELF) {
	tb.Helper()

	err := os.WriteFile(path, BuildTestELF(spec), 0o755)
	if err != nil {
		tb.Fatalf("write test ELF file %s: %v", path, err)
	}
}

// BuildTestELF returns the content of a minimal ELF file as described by spec.
func BuildTestELF(spec TestELF) []byte {
	var buf bytes.Buffer

	ident := [elf.EI_NIDENT]byte{
		0x7f, 'E', 'L', 'F',
		byte(elf.ELFCLASS32),
		byte(elf.ELFDATA2LSB),
		byte(elf.EV_CURRENT),
		byte(elf.ELFOSABI_NONE),
	}

	if spec.Class != elf.ELFCLASSNONE && spec.Class != elf.ELFCLASS32 {
		ident[elf.EI_CLASS] = byte(spec.Class)

		mustWrite(&buf, elf.Header64{
			Ident:     ident,
			Type:      uint16(elf.ET_DYN),
			Machine:   uint16(elf.EM_X86_64),
			Version:   uint32(elf.EV_CURRENT),
			Ehsize:    64,
			Phentsize: 56,
			Shentsize: 64,
		})

		return buf.Bytes()
	}

	const (
		headerSize  = 52
		sectionSize = 40
		dynSize     = 8
	)

	dynstr := []byte{0}
	addString := func(s string) uint32 {
		off := uint32(len(dynstr))
		dynstr = append(dynstr, s...)
		dynstr = append(dynstr, 0)

		return off
	}

	var dyns []elf.Dyn32

	addDyn := func(tag elf.DynTag, values []string) {
		for _, v := range values {
			dyns = append(dyns, elf.Dyn32{Tag: int32(tag), Val: addString(v)})
		}
	}

	addDyn(elf.DT_NEEDED, spec.Needed)
	addDyn(elf.DT_RPATH, spec.Rpath)
	addDyn(elf.DT_RUNPATH, spec.Runpath)
	dyns = append(dyns, elf.Dyn32{Tag: int32(elf.DT_NULL)})

	shstrtab := []byte("\x00.dynstr\x00.dynamic\x00.shstrtab\x00")

	const (
		dynstrName   = 1
		dynamicName  = 9
		shstrtabName = 18
	)

	dynstrOff := uint32(headerSize)
	dynOff := align4(dynstrOff + uint32(len(dynstr)))
	shstrOff := dynOff + uint32(len(dyns)*dynSize)
	shOff := align4(shstrOff + uint32(len(shstrtab)))

	sections := []elf.Section32{
		{},
		{
			Name:      dynstrName,
			Type:      uint32(elf.SHT_STRTAB),
			Flags:     uint32(elf.SHF_ALLOC),
			Off:       dynstrOff,
			Size:      uint32(len(dynstr)),
			Addralign: 1,
		},
		{
			Name:      dynamicName,
			Type:      uint32(elf.SHT_DYNAMIC),
			Flags:     uint32(elf.SHF_ALLOC | elf.SHF_WRITE),
			Off:       dynOff,
			Size:      uint32(len(dyns) * dynSize),
			Link:      1,
			Addralign: 4,
			Entsize:   dynSize,
		},
		{
			Name:      shstrtabName,
			Type:      uint32(elf.SHT_STRTAB),
			Off:       shstrOff,
			Size:      uint32(len(shstrtab)),
			Addralign: 1,
		},
	}

	if spec.Static {
		// Keep the section but make it a plain one, so the file has no
		// dynamic section anymore.
		sections[2].Type = uint32(elf.SHT_PROGBITS)
		sections[2].Link = 0
	}

	mustWrite(&buf, elf.Header32{
		Ident:     ident,
		Type:      uint16(elf.ET_DYN),
		Machine:   uint16(elf.EM_386),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     shOff,
		Ehsize:    headerSize,
		Phentsize: 32,
		Shentsize: sectionSize,
		Shnum:     uint16(len(sections)),
		Shstrndx:  uint16(len(sections) - 1),
	})

	buf.Write(dynstr)
	pad(&buf, dynOff)
	mustWrite(&buf, dyns)
	buf.Write(shstrtab)
	pad(&buf, shOff)
	mustWrite(&buf, sections)

	return buf.Bytes()
}

func align4(n uint32) uint32 {
	return (n + 3) &^ 3
}

func pad(buf *bytes.Buffer, size uint32) {
	for uint32(buf.Len()) < size {
		buf.WriteByte(0)
	}
}

func mustWrite(buf *bytes.Buffer, data any) {
	err := binary.Write(buf, binary.LittleEndian, data)
	if err != nil {
		panic(err)
	}
}
