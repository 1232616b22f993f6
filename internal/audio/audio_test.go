package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// pcm builds a 16 bit mono wav of the given length in samples.
func pcm(rate, samples int) []byte {
	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("RIFF")
	binary.Write(&b, le, uint32(36+2*samples))
	b.WriteString("WAVEfmt ")
	binary.Write(&b, le, uint32(16))
	binary.Write(&b, le, uint16(1)) // PCM
	binary.Write(&b, le, uint16(1))
	binary.Write(&b, le, uint32(rate))
	binary.Write(&b, le, uint32(rate*2))
	binary.Write(&b, le, uint16(2))
	binary.Write(&b, le, uint16(16))
	b.WriteString("data")
	binary.Write(&b, le, uint32(2*samples))
	for i := 0; i < samples; i++ {
		binary.Write(&b, le, int16(1000*math.Sin(float64(i)/10)))
	}
	return b.Bytes()
}

func TestDecodeWav(t *testing.T) {
	s, format, err := Decode("music.WAV", pcm(8000, 16000))
	if nil != err {
		t.Fatal(err)
	}
	defer s.Close()
	if format.SampleRate != 8000 || s.Len() != 16000 {
		t.Errorf("unexpected format %v and length %v", format, s.Len())
	}
	if d := format.SampleRate.D(s.Len()).Seconds(); d != 2 {
		t.Errorf("expected 2s of audio, got %v", d)
	}
}

func TestDecodeErrors(t *testing.T) {
	for name, data := range map[string][]byte{
		"music.flac": pcm(8000, 10),
		"music.wav":  []byte("not a wav"),
		"music":      nil,
	} {
		if _, _, err := Decode(name, data); nil == err {
			t.Log("decoded", name)
			t.Fail()
		}
	}
}

type fakeSource struct {
	now float64
}

func (f *fakeSource) read() float64 {
	return f.now
}

func TestSilent(t *testing.T) {
	src := &fakeSource{}
	var c Clock = NewSilent(src.read, 2, 10)
	if !c.Paused() || c.Position() != 0 {
		t.Fatal("silent clock starts paused at 0")
	}
	src.now = 1
	if c.Position() != 0 {
		t.Error("paused clock moved")
	}
	c.Resume()
	src.now = 3
	if c.Position() != 4 {
		t.Errorf("expected 4s at double speed, got %v", c.Position())
	}
	src.now = 100
	if c.Position() != 10 {
		t.Errorf("position should clamp to the length, got %v", c.Position())
	}
	c.SeekTo(-1)
	if c.Position() != 0 {
		t.Errorf("seek should clamp to 0, got %v", c.Position())
	}
	c.SeekTo(3)
	c.Pause()
	src.now = 200
	if c.Position() != 3 || c.Length() != 10 {
		t.Errorf("unexpected position %v", c.Position())
	}
	if nil != c.Close() {
		t.Fail()
	}
}
