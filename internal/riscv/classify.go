// Package riscv carries static reference data about the rv64gc instruction
// set: a mnemonic classification table mapping each mnemonic (including the
// pseudo-instructions objdump prints) to one or more tags of the form
// <extension>_<category>. The table is pure data, loaded once, never
// mutated.
package riscv

import "strings"

// Unclassified is the catch-all tag for mnemonics missing from the table.
const Unclassified = "unclassified"

// Classes returns the classification tags for a mnemonic, or nil when the
// mnemonic is unknown.
func Classes(mnemonic string) []string {
	return classes[mnemonic]
}

// Known reports whether the mnemonic appears in the table.
func Known(mnemonic string) bool {
	_, ok := classes[mnemonic]
	return ok
}

// IsLoad reports whether the mnemonic's classification includes a load
// category.
func IsLoad(mnemonic string) bool { return hasCategory(mnemonic, "_load") }

// IsStore reports whether the mnemonic's classification includes a store
// category.
func IsStore(mnemonic string) bool { return hasCategory(mnemonic, "_store") }

func hasCategory(mnemonic, suffix string) bool {
	for _, c := range classes[mnemonic] {
		if strings.HasSuffix(c, suffix) {
			return true
		}
	}
	return false
}

var classes = map[string][]string{
	// RV32I base integer
	"lui":    {"i_alu"},
	"auipc":  {"i_alu"},
	"jal":    {"i_jump"},
	"jalr":   {"i_jump"},
	"beq":    {"i_branch"},
	"bne":    {"i_branch"},
	"blt":    {"i_branch"},
	"bge":    {"i_branch"},
	"bltu":   {"i_branch"},
	"bgeu":   {"i_branch"},
	"lb":     {"i_load"},
	"lh":     {"i_load"},
	"lw":     {"i_load"},
	"lbu":    {"i_load"},
	"lhu":    {"i_load"},
	"sb":     {"i_store"},
	"sh":     {"i_store"},
	"sw":     {"i_store"},
	"addi":   {"i_alu"},
	"slti":   {"i_alu"},
	"sltiu":  {"i_alu"},
	"xori":   {"i_alu"},
	"ori":    {"i_alu"},
	"andi":   {"i_alu"},
	"slli":   {"i_shift"},
	"srli":   {"i_shift"},
	"srai":   {"i_shift"},
	"add":    {"i_alu"},
	"sub":    {"i_alu"},
	"sll":    {"i_shift"},
	"slt":    {"i_alu"},
	"sltu":   {"i_alu"},
	"xor":    {"i_alu"},
	"srl":    {"i_shift"},
	"sra":    {"i_shift"},
	"or":     {"i_alu"},
	"and":    {"i_alu"},
	"fence":  {"i_sync"},
	"ecall":  {"i_system"},
	"ebreak": {"i_system"},
	"unimp":  {"i_system"},

	// RV64I additions
	"lwu":   {"i_load"},
	"ld":    {"i_load"},
	"sd":    {"i_store"},
	"addiw": {"i_alu"},
	"slliw": {"i_shift"},
	"srliw": {"i_shift"},
	"sraiw": {"i_shift"},
	"addw":  {"i_alu"},
	"subw":  {"i_alu"},
	"sllw":  {"i_shift"},
	"srlw":  {"i_shift"},
	"sraw":  {"i_shift"},

	// Base pseudo-instructions
	"nop":       {"i_alu"},
	"li":        {"i_alu"},
	"mv":        {"i_alu"},
	"not":       {"i_alu"},
	"neg":       {"i_alu"},
	"negw":      {"i_alu"},
	"sext.w":    {"i_alu"},
	"seqz":      {"i_alu"},
	"snez":      {"i_alu"},
	"sltz":      {"i_alu"},
	"sgtz":      {"i_alu"},
	"beqz":      {"i_branch"},
	"bnez":      {"i_branch"},
	"blez":      {"i_branch"},
	"bgez":      {"i_branch"},
	"bltz":      {"i_branch"},
	"bgtz":      {"i_branch"},
	"bgt":       {"i_branch"},
	"ble":       {"i_branch"},
	"bgtu":      {"i_branch"},
	"bleu":      {"i_branch"},
	"j":         {"i_jump"},
	"jr":        {"i_jump"},
	"ret":       {"i_jump"},
	"call":      {"i_jump"},
	"tail":      {"i_jump"},
	"fence.tso": {"i_sync"},
	"pause":     {"i_sync"},

	// Zifencei / Zicsr
	"fence.i":  {"zifencei_sync"},
	"csrrw":    {"zicsr_csr"},
	"csrrs":    {"zicsr_csr"},
	"csrrc":    {"zicsr_csr"},
	"csrrwi":   {"zicsr_csr"},
	"csrrsi":   {"zicsr_csr"},
	"csrrci":   {"zicsr_csr"},
	"csrr":     {"zicsr_csr"},
	"csrw":     {"zicsr_csr"},
	"csrs":     {"zicsr_csr"},
	"csrc":     {"zicsr_csr"},
	"csrwi":    {"zicsr_csr"},
	"csrsi":    {"zicsr_csr"},
	"csrci":    {"zicsr_csr"},
	"rdcycle":  {"zicsr_csr"},
	"rdtime":   {"zicsr_csr"},
	"rdinstret": {"zicsr_csr"},
	"frcsr":    {"zicsr_csr"},
	"fscsr":    {"zicsr_csr"},
	"frrm":     {"zicsr_csr"},
	"fsrm":     {"zicsr_csr"},
	"frflags":  {"zicsr_csr"},
	"fsflags":  {"zicsr_csr"},

	// M extension
	"mul":    {"m_mul"},
	"mulh":   {"m_mul"},
	"mulhsu": {"m_mul"},
	"mulhu":  {"m_mul"},
	"div":    {"m_div"},
	"divu":   {"m_div"},
	"rem":    {"m_div"},
	"remu":   {"m_div"},
	"mulw":   {"m_mul"},
	"divw":   {"m_div"},
	"divuw":  {"m_div"},
	"remw":   {"m_div"},
	"remuw":  {"m_div"},

	// A extension
	"lr.w":      {"a_lrsc"},
	"sc.w":      {"a_lrsc"},
	"lr.d":      {"a_lrsc"},
	"sc.d":      {"a_lrsc"},
	"amoswap.w": {"a_amo"},
	"amoadd.w":  {"a_amo"},
	"amoxor.w":  {"a_amo"},
	"amoand.w":  {"a_amo"},
	"amoor.w":   {"a_amo"},
	"amomin.w":  {"a_amo"},
	"amomax.w":  {"a_amo"},
	"amominu.w": {"a_amo"},
	"amomaxu.w": {"a_amo"},
	"amoswap.d": {"a_amo"},
	"amoadd.d":  {"a_amo"},
	"amoxor.d":  {"a_amo"},
	"amoand.d":  {"a_amo"},
	"amoor.d":   {"a_amo"},
	"amomin.d":  {"a_amo"},
	"amomax.d":  {"a_amo"},
	"amominu.d": {"a_amo"},
	"amomaxu.d": {"a_amo"},

	// F extension (single-precision float)
	"flw":       {"f_load"},
	"fsw":       {"f_store"},
	"fmadd.s":   {"f_fmadd"},
	"fmsub.s":   {"f_fmadd"},
	"fnmsub.s":  {"f_fmadd"},
	"fnmadd.s":  {"f_fmadd"},
	"fadd.s":    {"f_arith"},
	"fsub.s":    {"f_arith"},
	"fmul.s":    {"f_arith"},
	"fdiv.s":    {"f_arith"},
	"fsqrt.s":   {"f_arith"},
	"fsgnj.s":   {"f_move"},
	"fsgnjn.s":  {"f_move"},
	"fsgnjx.s":  {"f_move"},
	"fmin.s":    {"f_arith"},
	"fmax.s":    {"f_arith"},
	"fcvt.w.s":  {"f_cvt"},
	"fcvt.wu.s": {"f_cvt"},
	"fcvt.l.s":  {"f_cvt"},
	"fcvt.lu.s": {"f_cvt"},
	"fcvt.s.w":  {"f_cvt"},
	"fcvt.s.wu": {"f_cvt"},
	"fcvt.s.l":  {"f_cvt"},
	"fcvt.s.lu": {"f_cvt"},
	"fmv.x.w":   {"f_move"},
	"fmv.w.x":   {"f_move"},
	"fmv.x.s":   {"f_move"},
	"fmv.s.x":   {"f_move"},
	"feq.s":     {"f_cmp"},
	"flt.s":     {"f_cmp"},
	"fle.s":     {"f_cmp"},
	"fclass.s":  {"f_cmp"},
	"fmv.s":     {"f_move"},
	"fabs.s":    {"f_move"},
	"fneg.s":    {"f_move"},

	// D extension (double-precision float)
	"fld":       {"d_load"},
	"fsd":       {"d_store"},
	"fmadd.d":   {"d_fmadd"},
	"fmsub.d":   {"d_fmadd"},
	"fnmsub.d":  {"d_fmadd"},
	"fnmadd.d":  {"d_fmadd"},
	"fadd.d":    {"d_arith"},
	"fsub.d":    {"d_arith"},
	"fmul.d":    {"d_arith"},
	"fdiv.d":    {"d_arith"},
	"fsqrt.d":   {"d_arith"},
	"fsgnj.d":   {"d_move"},
	"fsgnjn.d":  {"d_move"},
	"fsgnjx.d":  {"d_move"},
	"fmin.d":    {"d_arith"},
	"fmax.d":    {"d_arith"},
	"fcvt.s.d":  {"d_cvt"},
	"fcvt.d.s":  {"d_cvt"},
	"fcvt.w.d":  {"d_cvt"},
	"fcvt.wu.d": {"d_cvt"},
	"fcvt.l.d":  {"d_cvt"},
	"fcvt.lu.d": {"d_cvt"},
	"fcvt.d.w":  {"d_cvt"},
	"fcvt.d.wu": {"d_cvt"},
	"fcvt.d.l":  {"d_cvt"},
	"fcvt.d.lu": {"d_cvt"},
	"fmv.x.d":   {"d_move"},
	"fmv.d.x":   {"d_move"},
	"feq.d":     {"d_cmp"},
	"flt.d":     {"d_cmp"},
	"fle.d":     {"d_cmp"},
	"fclass.d":  {"d_cmp"},
	"fmv.d":     {"d_move"},
	"fabs.d":    {"d_move"},
	"fneg.d":    {"d_move"},

	// C extension, for disassemblers that keep the c.* spelling instead of
	// expanding to the alias.
	"c.addi4spn": {"c_alu"},
	"c.fld":      {"c_load", "d_load"},
	"c.lw":       {"c_load", "i_load"},
	"c.ld":       {"c_load", "i_load"},
	"c.fsd":      {"c_store", "d_store"},
	"c.sw":       {"c_store", "i_store"},
	"c.sd":       {"c_store", "i_store"},
	"c.nop":      {"c_alu"},
	"c.addi":     {"c_alu"},
	"c.addiw":    {"c_alu"},
	"c.li":       {"c_alu"},
	"c.addi16sp": {"c_alu"},
	"c.lui":      {"c_alu"},
	"c.srli":     {"c_shift"},
	"c.srai":     {"c_shift"},
	"c.andi":     {"c_alu"},
	"c.sub":      {"c_alu"},
	"c.xor":      {"c_alu"},
	"c.or":       {"c_alu"},
	"c.and":      {"c_alu"},
	"c.subw":     {"c_alu"},
	"c.addw":     {"c_alu"},
	"c.j":        {"c_jump"},
	"c.jal":      {"c_jump"},
	"c.jr":       {"c_jump"},
	"c.jalr":     {"c_jump"},
	"c.beqz":     {"c_branch"},
	"c.bnez":     {"c_branch"},
	"c.slli":     {"c_shift"},
	"c.fldsp":    {"c_load", "d_load"},
	"c.lwsp":     {"c_load", "i_load"},
	"c.ldsp":     {"c_load", "i_load"},
	"c.mv":       {"c_alu"},
	"c.add":      {"c_alu"},
	"c.ebreak":   {"i_system"},
	"c.fsdsp":    {"c_store", "d_store"},
	"c.swsp":     {"c_store", "i_store"},
	"c.sdsp":     {"c_store", "i_store"},

	// Zba address generation
	"add.uw":    {"zba_alu"},
	"sh1add":    {"zba_alu"},
	"sh2add":    {"zba_alu"},
	"sh3add":    {"zba_alu"},
	"sh1add.uw": {"zba_alu"},
	"sh2add.uw": {"zba_alu"},
	"sh3add.uw": {"zba_alu"},
	"slli.uw":   {"zba_alu"},
	"zext.w":    {"zba_alu"},

	// Zbb basic bit manipulation
	"andn":   {"zbb_alu"},
	"orn":    {"zbb_alu"},
	"xnor":   {"zbb_alu"},
	"clz":    {"zbb_bits"},
	"clzw":   {"zbb_bits"},
	"ctz":    {"zbb_bits"},
	"ctzw":   {"zbb_bits"},
	"cpop":   {"zbb_bits"},
	"cpopw":  {"zbb_bits"},
	"max":    {"zbb_alu"},
	"maxu":   {"zbb_alu"},
	"min":    {"zbb_alu"},
	"minu":   {"zbb_alu"},
	"sext.b": {"zbb_alu"},
	"sext.h": {"zbb_alu"},
	"zext.h": {"zbb_alu"},
	"rol":    {"zbb_shift"},
	"rolw":   {"zbb_shift"},
	"ror":    {"zbb_shift"},
	"rori":   {"zbb_shift"},
	"roriw":  {"zbb_shift"},
	"rorw":   {"zbb_shift"},
	"orc.b":  {"zbb_bits"},
	"rev8":   {"zbb_bits"},
}
