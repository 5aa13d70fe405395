package riscv

import (
	"fmt"
	"strings"
)

// asmWriter buffers the emitted listing. Grounded on
// hhramberg-go-vslc/src/util/io.go's Writer (Write/Ins1/Ins2/Ins2imm/
// Ins3/Label method names kept), with the channel-fed worker-thread
// Flush/Close machinery dropped: this backend walks one module
// sequentially, so a plain strings.Builder is all a single writer ever
// needs.
type asmWriter struct {
	sb strings.Builder
}

func newAsmWriter() *asmWriter { return &asmWriter{} }

func (w *asmWriter) Write(format string, args ...interface{}) {
	fmt.Fprintf(&w.sb, format, args...)
}

func (w *asmWriter) Ins1(op, rs1 string) {
	fmt.Fprintf(&w.sb, "\t%s\t%s\n", op, rs1)
}

func (w *asmWriter) Ins2(op, rd, rs1 string) {
	fmt.Fprintf(&w.sb, "\t%s\t%s, %s\n", op, rd, rs1)
}

func (w *asmWriter) Ins2imm(op, rd, rs1 string, imm int) {
	fmt.Fprintf(&w.sb, "\t%s\t%s, %s, %d\n", op, rd, rs1, imm)
}

func (w *asmWriter) Ins3(op, rd, rs1, rs2 string) {
	fmt.Fprintf(&w.sb, "\t%s\t%s, %s, %s\n", op, rd, rs1, rs2)
}

func (w *asmWriter) Label(name string) {
	fmt.Fprintf(&w.sb, "%s:\n", name)
}

func (w *asmWriter) String() string { return w.sb.String() }
