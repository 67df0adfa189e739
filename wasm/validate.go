package wasm

import "fmt"

// maxPages is the 4GiB limit of a 32-bit memory.
const maxPages = 65536

// Validate checks the module for structural validity.
func (m *Module) Validate() error {
	if err := m.validateTypeIndices(); err != nil {
		return err
	}
	if err := m.validateCodeCount(); err != nil {
		return err
	}
	if err := m.validateExports(); err != nil {
		return err
	}
	if err := m.validateMemories(); err != nil {
		return err
	}
	return m.validateData()
}

func (m *Module) validateTypeIndices() error {
	numTypes := uint32(len(m.Types))
	for i, imp := range m.Imports {
		if imp.TypeIdx >= numTypes {
			return fmt.Errorf("import %d (%s.%s): type index %d out of range (have %d types)",
				i, imp.Module, imp.Name, imp.TypeIdx, numTypes)
		}
	}
	for i, typeIdx := range m.Funcs {
		if typeIdx >= numTypes {
			return fmt.Errorf("function %d: type index %d out of range (have %d types)", i, typeIdx, numTypes)
		}
	}
	return nil
}

func (m *Module) validateCodeCount() error {
	if len(m.Code) != len(m.Funcs) {
		return fmt.Errorf("code count %d does not match function count %d", len(m.Code), len(m.Funcs))
	}
	for i, body := range m.Code {
		if len(body.Code) == 0 || body.Code[len(body.Code)-1] != OpEnd {
			return fmt.Errorf("function body %d: missing end opcode", i)
		}
	}
	return nil
}

func (m *Module) validateExports() error {
	seen := make(map[string]bool, len(m.Exports))
	for _, exp := range m.Exports {
		if seen[exp.Name] {
			return fmt.Errorf("duplicate export name %q", exp.Name)
		}
		seen[exp.Name] = true

		switch exp.Kind {
		case KindFunc:
			if exp.Idx >= m.NumFuncs() {
				return fmt.Errorf("export %q: function index %d out of range (have %d functions)",
					exp.Name, exp.Idx, m.NumFuncs())
			}
		case KindMemory:
			if exp.Idx >= uint32(len(m.Memories)) {
				return fmt.Errorf("export %q: memory index %d out of range", exp.Name, exp.Idx)
			}
		default:
			return fmt.Errorf("export %q: unsupported kind 0x%02x", exp.Name, exp.Kind)
		}
	}
	return nil
}

func (m *Module) validateMemories() error {
	if len(m.Memories) > 1 {
		return fmt.Errorf("multiple memories not supported (have %d)", len(m.Memories))
	}
	for i, mem := range m.Memories {
		if mem.Min > maxPages {
			return fmt.Errorf("memory %d: min %d pages exceeds %d", i, mem.Min, maxPages)
		}
		if mem.Max != nil && *mem.Max < mem.Min {
			return fmt.Errorf("memory %d: max %d below min %d", i, *mem.Max, mem.Min)
		}
	}
	return nil
}

func (m *Module) validateData() error {
	if len(m.Data) > 0 && len(m.Memories) == 0 {
		return fmt.Errorf("data segments without memory")
	}
	for i, d := range m.Data {
		if d.Offset < 0 {
			return fmt.Errorf("data segment %d: negative offset %d", i, d.Offset)
		}
		end := uint64(d.Offset) + uint64(len(d.Init))
		if end > uint64(m.Memories[0].Min)*PageSize {
			return fmt.Errorf("data segment %d: ends at %d beyond initial memory", i, end)
		}
	}
	return nil
}
