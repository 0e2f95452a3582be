package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/dmgcore/emu/gbcore/memory"
)

func newTestCPU() (*CPU, *memory.MMU) {
	mmu := memory.New()
	return New(mmu), mmu
}

// program writes code at 0xC000 and points PC at it, away from the ROM
// area so tests stay independent of cartridge handling.
func program(cpu *CPU, mmu *memory.MMU, code ...byte) {
	for i, b := range code {
		mmu.Write(0xC000+uint16(i), b)
	}
	cpu.pc = 0xC000
}

func TestPushAFPopBCMasksFlags(t *testing.T) {
	cpu, _ := newTestCPU()

	cpu.sp = 0xFFFE
	cpu.a = 0x12
	cpu.f = 0x34 // only the high nibble can survive a round trip

	opcode0xF5(cpu) // PUSH AF
	opcode0xC1(cpu) // POP BC

	assert.Equal(t, uint16(0x1230), cpu.getBC())
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestPopAFMasksLowNibble(t *testing.T) {
	cpu, _ := newTestCPU()

	cpu.sp = 0xFFFE
	cpu.pushStack(0xABCD)

	opcode0xF1(cpu) // POP AF

	assert.Equal(t, uint16(0xABC0), cpu.getAF())
}

func TestStackRoundTripThroughOpcodes(t *testing.T) {
	cpu, _ := newTestCPU()
	cpu.sp = 0xFFFE

	cpu.setDE(0xBEEF)
	opcode0xD5(cpu) // PUSH DE
	opcode0xE1(cpu) // POP HL

	assert.Equal(t, uint16(0xBEEF), cpu.getHL())
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestFlagRegisterLowNibbleStaysZero(t *testing.T) {
	cpu, _ := newTestCPU()

	cpu.setAF(0xFFFF)
	assert.Equal(t, uint8(0xF0), cpu.f)

	// Exercise a handful of flag-writing helpers; none may dirty the
	// low nibble.
	cpu.addToA(0x99)
	assert.Equal(t, uint8(0), cpu.f&0x0F)
	cpu.sub(0x01)
	assert.Equal(t, uint8(0), cpu.f&0x0F)
	cpu.daa()
	assert.Equal(t, uint8(0), cpu.f&0x0F)
}

func TestCallAndReturn(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.sp = 0xFFFE

	// CALL 0xC010 at 0xC000, RET at 0xC010.
	program(cpu, mmu, 0xCD, 0x10, 0xC0)
	mmu.Write(0xC010, 0xC9)

	cycles := cpu.Tick()
	assert.Equal(t, 24, cycles)
	assert.Equal(t, uint16(0xC010), cpu.pc)
	assert.Equal(t, uint16(0xFFFC), cpu.sp)

	cycles = cpu.Tick()
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0xC003), cpu.pc)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestConditionalCallNotTakenConsumesOperand(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.sp = 0xFFFE
	cpu.setFlag(zeroFlag)

	// CALL NZ,0xC010 with Z set falls through to the next instruction.
	program(cpu, mmu, 0xC4, 0x10, 0xC0)

	cycles := cpu.Tick()
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0xC003), cpu.pc)
	assert.Equal(t, uint16(0xFFFE), cpu.sp)
}

func TestRSTVectors(t *testing.T) {
	testCases := []struct {
		opcode Opcode
		vector uint16
	}{
		{opcode0xC7, 0x00},
		{opcode0xCF, 0x08},
		{opcode0xD7, 0x10},
		{opcode0xDF, 0x18},
		{opcode0xE7, 0x20},
		{opcode0xEF, 0x28},
		{opcode0xF7, 0x30},
		{opcode0xFF, 0x38},
	}
	for _, tC := range testCases {
		cpu, _ := newTestCPU()
		cpu.sp = 0xFFFE
		cpu.pc = 0x1234

		tC.opcode(cpu)

		assert.Equal(t, tC.vector, cpu.pc)
		assert.Equal(t, uint16(0x1234), cpu.popStack())
	}
}

func TestLDHAddressesHighPage(t *testing.T) {
	cpu, mmu := newTestCPU()

	// LDH (0x80),A stores to 0xFF80; LDH A,(0x80) reads it back.
	cpu.a = 0x42
	program(cpu, mmu, 0xE0, 0x80, 0x3E, 0x00, 0xF0, 0x80)

	cpu.Tick()
	assert.Equal(t, byte(0x42), mmu.Read(0xFF80))

	cpu.Tick() // LD A,0
	cpu.Tick() // LDH A,(0x80)
	assert.Equal(t, uint8(0x42), cpu.a)
}

func TestAddSPSignedOperand(t *testing.T) {
	testCases := []struct {
		desc   string
		sp     uint16
		n      byte
		want   uint16
		flags  Flag
	}{
		{desc: "positive", sp: 0xFFF8, n: 0x08, want: 0x0000, flags: halfCarryFlag | carryFlag},
		{desc: "negative", sp: 0xFFF8, n: 0xF8, want: 0xFFF0, flags: halfCarryFlag | carryFlag},
		{desc: "no carries", sp: 0x1000, n: 0x01, want: 0x1001},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu, mmu := newTestCPU()
			cpu.sp = tC.sp
			cpu.f = 0xF0

			program(cpu, mmu, 0xE8, tC.n)
			cpu.Tick()

			assert.Equal(t, tC.want, cpu.sp)
			assert.Equalf(t, uint8(tC.flags), cpu.f, "flags don't match")
		})
	}
}

func TestLDHLSPSignedOperand(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.sp = 0xFFF8
	cpu.f = 0xF0

	// LDHL SP,-8
	program(cpu, mmu, 0xF8, 0xF8)
	cpu.Tick()

	assert.Equal(t, uint16(0xFFF0), cpu.getHL())
	assert.Equal(t, uint16(0xFFF8), cpu.sp, "SP itself is untouched")
	assert.Equal(t, uint8(halfCarryFlag|carryFlag), cpu.f)
}

func TestAccumulatorRotatesThroughStep(t *testing.T) {
	// RLCA on a value that rotates to zero-carry patterns must never
	// set the zero flag, unlike CB-prefixed RLC A.
	cpu, mmu := newTestCPU()
	cpu.a = 0x00
	cpu.f = 0

	program(cpu, mmu, 0x07) // RLCA
	cpu.Tick()
	assert.Equal(t, uint8(0), cpu.f&uint8(zeroFlag))

	cpu2, mmu2 := newTestCPU()
	cpu2.a = 0x00
	cpu2.f = 0
	program(cpu2, mmu2, 0xCB, 0x07) // RLC A
	cpu2.Tick()
	assert.Equal(t, uint8(zeroFlag), cpu2.f&uint8(zeroFlag))
}

func TestADCZeroFlagUsesResult(t *testing.T) {
	cpu, _ := newTestCPU()

	// 0xFF + 0x00 + carry = 0x00: Z must be set even though A != value.
	cpu.a = 0xFF
	cpu.f = 0
	cpu.setFlag(carryFlag)
	cpu.adc(0x00)

	assert.Equal(t, uint8(0), cpu.a)
	assert.True(t, cpu.isSetFlag(zeroFlag))
}

func TestSBCZeroFlagUsesResult(t *testing.T) {
	cpu, _ := newTestCPU()

	// 0x01 - 0x00 - carry = 0x00.
	cpu.a = 0x01
	cpu.f = 0
	cpu.setFlag(carryFlag)
	cpu.sbc(0x00)

	assert.Equal(t, uint8(0), cpu.a)
	assert.True(t, cpu.isSetFlag(zeroFlag))
}

func TestIncDecHLMemory(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.setHL(0xC100)
	mmu.Write(0xC100, 0x0F)

	cpu.f = 0
	opcode0x34(cpu) // INC (HL)
	assert.Equal(t, byte(0x10), mmu.Read(0xC100))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
	assert.False(t, cpu.isSetFlag(subFlag))

	cpu.f = 0
	mmu.Write(0xC100, 0x01)
	opcode0x35(cpu) // DEC (HL)
	assert.Equal(t, byte(0x00), mmu.Read(0xC100))
	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(subFlag))
}

func TestCBMemoryReadModifyWrite(t *testing.T) {
	cpu, mmu := newTestCPU()
	cpu.setHL(0xC200)
	mmu.Write(0xC200, 0x81)

	// SET 1,(HL)
	opcode0xCBCE(cpu)
	assert.Equal(t, byte(0x83), mmu.Read(0xC200))

	// RES 7,(HL)
	opcode0xCBBE(cpu)
	assert.Equal(t, byte(0x03), mmu.Read(0xC200))

	// SWAP (HL)
	opcode0xCB36(cpu)
	assert.Equal(t, byte(0x30), mmu.Read(0xC200))

	// BIT 5,(HL) on 0x30 finds the bit set.
	cpu.f = 0
	opcode0xCB6E(cpu)
	assert.False(t, cpu.isSetFlag(zeroFlag))
}

func TestUndefinedOpcodeTrap(t *testing.T) {
	for _, op := range []byte{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		cpu, mmu := newTestCPU()
		program(cpu, mmu, op)

		cpu.Tick()

		require.Error(t, cpu.Err())
		var unknownErr *UnknownOpcodeError
		require.ErrorAs(t, cpu.Err(), &unknownErr)
		assert.Equal(t, op, unknownErr.Opcode)
		assert.Equal(t, uint16(0xC000), unknownErr.PC)
	}
}

func TestHaltedCPUStillReportsCycles(t *testing.T) {
	cpu, mmu := newTestCPU()
	program(cpu, mmu, 0x76) // HALT

	cpu.Tick()
	assert.True(t, cpu.halted)

	cycles := cpu.Tick()
	assert.Equal(t, 4, cycles)
	assert.True(t, cpu.halted)
}

func TestJRBackwards(t *testing.T) {
	cpu, mmu := newTestCPU()

	// NOP; JR -3 loops back to the NOP.
	program(cpu, mmu, 0x00, 0x18, 0xFD)

	cpu.Tick() // NOP
	cpu.Tick() // JR
	assert.Equal(t, uint16(0xC000), cpu.pc)
}
