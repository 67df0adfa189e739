package wasm

import (
	"github.com/wippyai/wasm-toolcheck/wasm/internal/binary"
)

// section is one vector section: an ID, its element count and a writer for
// the elements. The count prefix is written by Encode.
type section struct {
	write func(*binary.Writer)
	count int
	id    byte
}

// Encode returns the module in binary format. Empty sections are omitted.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()
	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	for _, s := range []section{
		{m.writeTypes, len(m.Types), SectionType},
		{m.writeImports, len(m.Imports), SectionImport},
		{m.writeFuncs, len(m.Funcs), SectionFunction},
		{m.writeMemories, len(m.Memories), SectionMemory},
		{m.writeExports, len(m.Exports), SectionExport},
		{m.writeCode, len(m.Code), SectionCode},
		{m.writeData, len(m.Data), SectionData},
	} {
		if s.count == 0 {
			continue
		}
		body := binary.NewWriter()
		body.WriteU32(uint32(s.count))
		s.write(body)
		w.Byte(s.id)
		w.WriteVec(body.Bytes())
	}
	return w.Bytes()
}

func (m *Module) writeTypes(w *binary.Writer) {
	for _, ft := range m.Types {
		w.Byte(FuncTypeByte)
		writeResultType(w, ft.Params)
		writeResultType(w, ft.Results)
	}
}

func (m *Module) writeImports(w *binary.Writer) {
	for _, imp := range m.Imports {
		w.WriteName(imp.Module)
		w.WriteName(imp.Name)
		w.Byte(KindFunc)
		w.WriteU32(imp.TypeIdx)
	}
}

func (m *Module) writeFuncs(w *binary.Writer) {
	for _, idx := range m.Funcs {
		w.WriteU32(idx)
	}
}

func (m *Module) writeMemories(w *binary.Writer) {
	for _, l := range m.Memories {
		if l.Max == nil {
			w.Byte(0x00)
			w.WriteU32(l.Min)
			continue
		}
		w.Byte(0x01)
		w.WriteU32(l.Min)
		w.WriteU32(*l.Max)
	}
}

func (m *Module) writeExports(w *binary.Writer) {
	for _, e := range m.Exports {
		w.WriteName(e.Name)
		w.Byte(e.Kind)
		w.WriteU32(e.Idx)
	}
}

// writeCode emits each body size-prefixed: local declarations, then code.
func (m *Module) writeCode(w *binary.Writer) {
	for _, fb := range m.Code {
		var body binary.Writer
		body.WriteU32(uint32(len(fb.Locals)))
		for _, l := range fb.Locals {
			body.WriteU32(l.Count)
			body.Byte(byte(l.ValType))
		}
		body.WriteBytes(fb.Code)
		w.WriteVec(body.Bytes())
	}
}

// writeData emits active segments for memory 0 with an i32.const offset.
func (m *Module) writeData(w *binary.Writer) {
	for _, d := range m.Data {
		w.WriteU32(0)
		w.WriteBytes(NewExpr().I32Const(d.Offset).End())
		w.WriteVec(d.Init)
	}
}

func writeResultType(w *binary.Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}
