package stats

import (
	"testing"

	"github.com/handheld-labs/m4vplay/internal/timer"
)

func TestSummarizeUnsignedOddN(t *testing.T) {
	// n=5, Tukey hinges exclude the overall median from each half.
	s := SummarizeUnsigned([]uint32{1, 2, 3, 4, 5})
	if s.Min != 1 || s.Max != 5 || s.Median != 3 {
		t.Fatalf("min/median/max = %v/%v/%v, want 1/3/5", s.Min, s.Median, s.Max)
	}
	if s.Q1 != 1.5 || s.Q3 != 4.5 {
		t.Fatalf("q1/q3 = %v/%v, want 1.5/4.5", s.Q1, s.Q3)
	}
	if s.N != 5 {
		t.Fatalf("N = %d, want 5", s.N)
	}
}

func TestSummarizeSignedWithNegatives(t *testing.T) {
	s := SummarizeSigned([]int32{-10, -5, 0, 5, 10})
	if s.Min != -10 || s.Max != 10 || s.Median != 0 {
		t.Fatalf("min/median/max = %v/%v/%v, want -10/0/10", s.Min, s.Median, s.Max)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := SummarizeUnsigned(nil)
	if s.N != 0 {
		t.Fatalf("N = %d, want 0 for empty input", s.N)
	}
}

func TestFiveNumberStringIntegerQuartiles(t *testing.T) {
	s := SummarizeUnsigned([]uint32{2, 4, 6, 8})
	got := s.String()
	// q1 = median(2,4) = 3, median = 5, q3 = median(6,8) = 7: all whole.
	if want := "n=4 min=2 q1=3 median=5 q3=7 max=8 mean=5.00"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestCollectorRecordsAndAverageFPS(t *testing.T) {
	c := NewCollector()
	c.RecordDecode(KindI, 100)
	c.RecordDecode(KindP, 50)
	c.RecordWasted(10)
	c.RecordBlit(5)
	c.RecordPacingWait(-3)
	c.RecordPacingWait(7)
	c.RecordFrameTotal(uint32(T_HZFor1Frame(30)))
	c.RecordFrameTotal(uint32(T_HZFor1Frame(30)))

	if len(c.DecodeI) != 1 || len(c.DecodeP) != 1 {
		t.Fatalf("decode vectors not recorded: I=%d P=%d", len(c.DecodeI), len(c.DecodeP))
	}
	if c.FramesLate != 1 {
		t.Fatalf("FramesLate = %d, want 1", c.FramesLate)
	}
	if c.FramesPresented != 2 {
		t.Fatalf("FramesPresented = %d, want 2", c.FramesPresented)
	}
	fps := c.AverageFPS()
	if fps < 29 || fps > 31 {
		t.Fatalf("AverageFPS = %v, want ~30", fps)
	}
}

// T_HZFor1Frame returns the tick count for one frame at fps frames per
// second, a small test helper (not part of the package API).
func T_HZFor1Frame(fps int) int {
	return timer.T_HZ / fps
}
