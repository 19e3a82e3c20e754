package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	s.Push(0x234)
	assert.False(s.Empty())
	assert.Equal(1, len(s.Data))
	assert.Equal(uint16(0x234), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x234)
	s.Push(0xABC)

	val, ok := s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0xABC), val)
	assert.Equal(1, len(s.Data))

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x234), val)
	assert.Equal(0, len(s.Data))
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Pop()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x234)
	s.Push(0xABC)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0xABC), val)
	assert.Equal(2, len(s.Data))
}

func TestStack_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Peek()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.False(s.Full())

	for i := 0; i < STACK_LIMIT; i++ {
		s.Push(uint16(i))
	}

	assert.True(s.Full())
	assert.False(s.Empty())
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x234)
	s.Push(0xABC)
	assert.Equal(2, len(s.Data))

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(0, len(s.Data))
}

func TestStack_Reset_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Reset()
	assert.True(s.Empty())
}

func TestStack_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())

	s.Push(1)
	assert.False(s.Empty())

	s.Pop()
	assert.True(s.Empty())
}

func TestStack_ReturnAddresses(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}

	// Nest subroutines to the architectural depth limit and unwind,
	// using word-aligned return addresses in the program area.
	for n := 0; n < STACK_LIMIT; n++ {
		assert.False(s.Full())
		s.Push(uint16(START_ADDR + 2 + 2*n))
	}
	assert.True(s.Full())

	for n := STACK_LIMIT - 1; n >= 0; n-- {
		val, ok := s.Pop()
		assert.True(ok)
		assert.Equal(uint16(START_ADDR+2+2*n), val)
	}
	assert.True(s.Empty())
}

func TestStack_Capacity(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}

	for i := 0; i < STACK_LIMIT; i++ {
		assert.False(s.Full())
		s.Push(uint16(i))
	}

	assert.True(s.Full())
	assert.Equal(STACK_LIMIT, len(s.Data))
}
