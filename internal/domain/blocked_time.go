package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/pkg/types"
)

// BlockType scope of a block within its date
type BlockType string

const (
	BlockTypeDate     BlockType = "date"
	BlockTypeTimeSlot BlockType = "time_slot"
)

// IsValid reports whether t is a known block type
func (t BlockType) IsValid() bool {
	return t == BlockTypeDate || t == BlockTypeTimeSlot
}

// BlockedTime admin-declared exclusion.
// Office nil means every channel, video included.
type BlockedTime struct {
	ID          uuid.UUID
	BlockType   BlockType
	BlockedDate time.Time
	StartTime   *types.TimeString // time_slot only, inclusive
	EndTime     *types.TimeString // time_slot only, exclusive
	Office      *OfficeLocation
	Reason      *string
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsGlobal returns true when the block applies to every channel
func (b *BlockedTime) IsGlobal() bool {
	return b.Office == nil
}

// AppliesTo reports whether the block's scope covers the channel.
// Office-scoped blocks never apply to video.
func (b *BlockedTime) AppliesTo(ch Channel) bool {
	if b.IsGlobal() {
		return true
	}
	return ch.Type == ConsultationVisit && ch.Office != nil && *ch.Office == *b.Office
}

// BlocksWholeDay returns true for date blocks
func (b *BlockedTime) BlocksWholeDay() bool {
	return b.BlockType == BlockTypeDate
}

// Covers reports whether t falls inside the block: whole day, or [start, end)
func (b *BlockedTime) Covers(t types.TimeString) bool {
	if b.BlocksWholeDay() {
		return true
	}
	if b.StartTime == nil || b.EndTime == nil {
		return false
	}
	return !t.IsBefore(*b.StartTime) && t.IsBefore(*b.EndTime)
}

// IsDateFullyBlocked reports whether any date block in blocks applies to ch.
// blocks must already be restricted to the date in question.
func IsDateFullyBlocked(blocks []*BlockedTime, ch Channel) bool {
	for _, b := range blocks {
		if b.BlocksWholeDay() && b.AppliesTo(ch) {
			return true
		}
	}
	return false
}

// IsSlotBlocked reports whether t on the date of blocks is blocked for ch
func IsSlotBlocked(blocks []*BlockedTime, t types.TimeString, ch Channel) bool {
	for _, b := range blocks {
		if b.AppliesTo(ch) && b.Covers(t) {
			return true
		}
	}
	return false
}
