package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the CHIP-8 instruction set.
// It accepts the mnemonic syntax the disassembler emits, plus jump
// labels, equates, compile-time $() expression evaluation, and db/dw
// data directives. Bare numeric operands are hexadecimal, with an
// optional 0x prefix; ';' starts a comment.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to memory addresses.
	Equate    map[string]string // Map of equates.

	addr int // Next emitted address.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regOf decodes a V-register token.
func regOf(word string) (reg uint8, ok bool) {
	if len(word) != 2 || (word[0] != 'V' && word[0] != 'v') {
		return
	}

	v64, err := strconv.ParseUint(word[1:], 16, 8)
	if err != nil {
		return
	}

	return uint8(v64), true
}

// valueOf returns the value of a numeric word. Bare numbers are
// hexadecimal; a 0x prefix is accepted.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	num := strings.TrimPrefix(strings.TrimPrefix(word, "0x"), "0X")

	v64, err := strconv.ParseUint(num, 16, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)

	return
}

// byteOf returns an 8-bit immediate value.
func (asm *Assembler) byteOf(word string) (value uint8, err error) {
	v32, err := asm.valueOf(word)
	if err != nil {
		return
	}
	if v32 > 0xFF {
		err = ErrValueRange
		return
	}

	value = uint8(v32)

	return
}

// addrOf returns a 12-bit address, either numeric or a jump label to
// be linked later.
func (asm *Assembler) addrOf(word string) (addr uint16, link string, err error) {
	value, err := asm.valueOf(word)
	if err == nil {
		if value > ADDR_MASK {
			err = ErrValueRange
		}
		addr = uint16(value)
		return
	}

	// Not a number - defer to the linking pass.
	err = nil
	link = word

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine parses a single line into operand words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%#x", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	// Commas and the {, Vy} braces of the shift mnemonics are
	// decoration.
	line = strings.Map(func(r rune) rune {
		switch r {
		case ',', '{', '}':
			return ' '
		}
		return r
	}, line)

	words = slices.DeleteFunc(strings.Fields(line), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.addr
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// emit appends an assembled line.
func (asm *Assembler) emit(op Opcode) {
	op.Addr = asm.addr
	asm.addr += len(op.Bytes)
	asm.Opcode = append(asm.Opcode, op)
}

// emitWord appends a single instruction word.
func (asm *Assembler) emitWord(raw uint16, link string, words []string, lineno int) {
	asm.emit(Opcode{
		LineNo:    lineno,
		Words:     slices.Clone(words),
		Bytes:     []byte{uint8(raw >> 8), uint8(raw)},
		LinkLabel: link,
	})
}

// assembleLD encodes the many forms of the LD mnemonic.
func (asm *Assembler) assembleLD(args []string) (raw uint16, link string, err error) {
	if len(args) != 2 {
		err = ErrOperandCount
		return
	}

	dst := strings.ToUpper(args[0])
	src := strings.ToUpper(args[1])

	if x, ok := regOf(dst); ok {
		switch {
		case src == "DT":
			raw = 0xF007 | uint16(x)<<8
		case src == "K":
			raw = 0xF00A | uint16(x)<<8
		case src == "[I]":
			raw = 0xF065 | uint16(x)<<8
		default:
			if y, ok := regOf(src); ok {
				raw = 0x8000 | uint16(x)<<8 | uint16(y)<<4
				return
			}
			var kk uint8
			kk, err = asm.byteOf(args[1])
			if err != nil {
				return
			}
			raw = 0x6000 | uint16(x)<<8 | uint16(kk)
		}
		return
	}

	x, ok := regOf(src)
	if !ok && dst != "I" {
		err = ErrBadOperand(args[1])
		return
	}

	switch dst {
	case "I":
		var addr uint16
		addr, link, err = asm.addrOf(args[1])
		raw = 0xA000 | addr
	case "DT":
		raw = 0xF015 | uint16(x)<<8
	case "ST":
		raw = 0xF018 | uint16(x)<<8
	case "F":
		raw = 0xF029 | uint16(x)<<8
	case "B":
		raw = 0xF033 | uint16(x)<<8
	case "[I]":
		raw = 0xF055 | uint16(x)<<8
	default:
		err = ErrBadOperand(args[0])
	}

	return
}

// assembleXKK encodes a "Vx, byte" or "Vx, Vy" form with the given
// class words.
func (asm *Assembler) assembleXKK(args []string, immClass, regClass uint16) (raw uint16, err error) {
	if len(args) != 2 {
		err = ErrOperandCount
		return
	}

	x, ok := regOf(args[0])
	if !ok {
		err = ErrBadOperand(args[0])
		return
	}

	if y, ok := regOf(args[1]); ok {
		if regClass == 0 {
			err = ErrBadOperand(args[1])
			return
		}
		raw = regClass | uint16(x)<<8 | uint16(y)<<4
		return
	}

	kk, err := asm.byteOf(args[1])
	if err != nil {
		return
	}
	raw = immClass | uint16(x)<<8 | uint16(kk)

	return
}

// assembleXY encodes a two-register ALU form.
func (asm *Assembler) assembleXY(args []string, class uint16) (raw uint16, err error) {
	if len(args) != 2 {
		err = ErrOperandCount
		return
	}

	x, okx := regOf(args[0])
	y, oky := regOf(args[1])
	if !okx {
		err = ErrBadOperand(args[0])
		return
	}
	if !oky {
		err = ErrBadOperand(args[1])
		return
	}

	raw = class | uint16(x)<<8 | uint16(y)<<4

	return
}

// assembleShift encodes SHR/SHL, where the second register is
// optional.
func (asm *Assembler) assembleShift(args []string, class uint16) (raw uint16, err error) {
	if len(args) != 1 && len(args) != 2 {
		err = ErrOperandCount
		return
	}

	x, ok := regOf(args[0])
	if !ok {
		err = ErrBadOperand(args[0])
		return
	}

	raw = class | uint16(x)<<8
	if len(args) == 2 {
		y, ok := regOf(args[1])
		if !ok {
			err = ErrBadOperand(args[1])
			return
		}
		raw |= uint16(y) << 4
	}

	return
}

// assembleXOnly encodes a single-register form (SKP, SKNP).
func (asm *Assembler) assembleXOnly(args []string, class uint16) (raw uint16, err error) {
	if len(args) != 1 {
		err = ErrOperandCount
		return
	}

	x, ok := regOf(args[0])
	if !ok {
		err = ErrBadOperand(args[0])
		return
	}

	raw = class | uint16(x)<<8

	return
}

// assembleWords assembles a single parsed line.
func (asm *Assembler) assembleWords(words []string, lineno int) (err error) {
	mn := strings.ToUpper(words[0])
	args := words[1:]

	var raw uint16
	var link string

	switch mn {
	case "CLS", "RET":
		if len(args) != 0 {
			return ErrOperandCount
		}
		raw = 0x00E0
		if mn == "RET" {
			raw = 0x00EE
		}

	case "SYS", "CALL":
		if len(args) != 1 {
			return ErrOperandCount
		}
		var addr uint16
		addr, link, err = asm.addrOf(args[0])
		if err != nil {
			return
		}
		raw = addr
		if mn == "CALL" {
			raw |= 0x2000
		}

	case "JP":
		var addr uint16
		switch len(args) {
		case 1: // JP addr
			addr, link, err = asm.addrOf(args[0])
			raw = 0x1000 | addr
		case 2: // JP V0, addr
			x, ok := regOf(args[0])
			if !ok || x != 0x0 {
				return ErrBadOperand(args[0])
			}
			addr, link, err = asm.addrOf(args[1])
			raw = 0xB000 | addr
		default:
			return ErrOperandCount
		}
		if err != nil {
			return
		}

	case "SE":
		raw, err = asm.assembleXKK(args, 0x3000, 0x5000)
	case "SNE":
		raw, err = asm.assembleXKK(args, 0x4000, 0x9000)
	case "RND":
		raw, err = asm.assembleXKK(args, 0xC000, 0)

	case "LD":
		raw, link, err = asm.assembleLD(args)

	case "ADD":
		if len(args) == 2 && strings.ToUpper(args[0]) == "I" {
			raw, err = asm.assembleXOnly(args[1:], 0xF01E)
		} else {
			raw, err = asm.assembleXKK(args, 0x7000, 0x8004)
		}

	case "OR":
		raw, err = asm.assembleXY(args, 0x8001)
	case "AND":
		raw, err = asm.assembleXY(args, 0x8002)
	case "XOR":
		raw, err = asm.assembleXY(args, 0x8003)
	case "SUB":
		raw, err = asm.assembleXY(args, 0x8005)
	case "SUBN":
		raw, err = asm.assembleXY(args, 0x8007)
	case "SHR":
		raw, err = asm.assembleShift(args, 0x8006)
	case "SHL":
		raw, err = asm.assembleShift(args, 0x800E)

	case "DRW":
		if len(args) != 3 {
			return ErrOperandCount
		}
		raw, err = asm.assembleXY(args[:2], 0xD000)
		if err != nil {
			return
		}
		var n uint8
		n, err = asm.byteOf(args[2])
		if err != nil {
			return
		}
		if n > 0xF {
			return ErrValueRange
		}
		raw |= uint16(n)

	case "SKP":
		raw, err = asm.assembleXOnly(args, 0xE09E)
	case "SKNP":
		raw, err = asm.assembleXOnly(args, 0xE0A1)

	case "DB":
		if len(args) == 0 {
			return ErrOperandCount
		}
		data := make([]byte, 0, len(args))
		for _, arg := range args {
			var b uint8
			b, err = asm.byteOf(arg)
			if err != nil {
				return
			}
			data = append(data, b)
		}
		asm.emit(Opcode{LineNo: lineno, Words: slices.Clone(words), Bytes: data, Data: true})
		return

	case "DW":
		if len(args) == 0 {
			return ErrOperandCount
		}
		data := make([]byte, 0, 2*len(args))
		for _, arg := range args {
			var w uint32
			w, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			if w > 0xFFFF {
				return ErrValueRange
			}
			data = append(data, uint8(w>>8), uint8(w))
		}
		asm.emit(Opcode{LineNo: lineno, Words: slices.Clone(words), Bytes: data, Data: true})
		return

	default:
		return ErrBadMnemonic(words[0])
	}

	if err != nil {
		return
	}

	asm.emitWord(raw, link, words, lineno)

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.addr = START_ADDR
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
		if len(words) == 0 {
			continue
		}

		err = asm.assembleWords(words, lineno)
		if err != nil {
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		op.Bytes[0] = op.Bytes[0]&0xF0 | uint8(addr>>8)&0x0F
		op.Bytes[1] = uint8(addr)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}
