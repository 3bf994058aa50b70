package wasm

// CheckLayout verifies the module header and section framing: known section
// IDs in canonical order with no duplicates, declared sizes within bounds,
// valid custom section names, and a code section entry for every function
// section entry. Entry contents are not decoded beyond the counts.
func CheckLayout(data []byte) error {
	mr, err := NewModuleReader(data)
	if err != nil {
		return err
	}

	// Track section ordering using canonical order, not section IDs
	var lastOrder int
	var funcCount, codeCount uint32
	var funcOffset int
	var sawFunc, sawCode bool

	for !mr.EOF() {
		headerOffset := mr.Offset()
		sec, err := mr.Read()
		if err != nil {
			return err
		}

		if sec.ID == SectionCustom {
			if _, err := sec.CustomName(); err != nil {
				return err
			}
			continue
		}

		order := sectionOrder(sec.ID)
		if order == 0 {
			return mr.r.FailAt(headerOffset, "malformed section id 0x%02x", sec.ID)
		}
		if order <= lastOrder {
			return mr.r.FailAt(headerOffset, "%s section out of order", SectionName(sec.ID))
		}
		lastOrder = order

		switch sec.ID {
		case SectionFunction:
			fr, err := sec.Functions()
			if err != nil {
				return err
			}
			funcCount, funcOffset, sawFunc = fr.Count(), sec.Offset, true
		case SectionCode:
			cr, err := sec.Codes()
			if err != nil {
				return err
			}
			codeCount, sawCode = cr.Count(), true
			if codeCount != funcCount {
				return mr.r.FailAt(sec.Offset, "function and code section have inconsistent lengths (%d != %d)", funcCount, codeCount)
			}
		}
	}

	if sawFunc && funcCount > 0 && !sawCode {
		return mr.r.FailAt(funcOffset, "function and code section have inconsistent lengths (%d != 0)", funcCount)
	}
	return nil
}

// sectionOrder returns the canonical ordering for a section ID, or 0 for an
// unknown ID. Order differs from ID for the tag and data count sections.
func sectionOrder(id byte) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionTag:
		return 6 // Tag comes after Memory, before Global
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11 // DataCount must come before Code
	case SectionCode:
		return 12
	case SectionData:
		return 13
	default:
		return 0
	}
}
