package disc

import (
	"encoding/binary"

	"github.com/valerio/go-laserdisc/laserdisc/vbi"
)

const vbiSize = vbi.RecordSize

// DecodeOptions selects which parts of a hunk a read should fill in.
// The VBI record is always read.
type DecodeOptions struct {
	Video bool
	Audio bool
}

// Hunk is the decoded content of one field. Luma and Audio are nil when
// they were not requested.
type Hunk struct {
	VBI   []byte
	Luma  []byte
	Audio []int16
}

// Decode splits a hunk buffer read with opts into its parts.
func (i Info) Decode(buf []byte, opts DecodeOptions) Hunk {
	h := Hunk{VBI: buf[:vbiSize]}
	if opts.Video {
		h.Luma = buf[vbiSize : vbiSize+i.lumaSize()]
	}
	if opts.Audio {
		audio := buf[vbiSize+i.lumaSize():]
		pairs := int(binary.BigEndian.Uint16(audio))
		if max := i.MaxPairsPerField(); pairs > max {
			pairs = max
		}
		h.Audio = make([]int16, pairs*i.Channels)
		for n := range h.Audio {
			h.Audio[n] = int16(binary.BigEndian.Uint16(audio[2+n*2:]))
		}
	}
	return h
}

// encodeHunk lays a field out in a hunk buffer.
func (i Info) encodeHunk(buf []byte, meta vbi.Metadata, luma []byte, audio []int16) {
	for n := range buf {
		buf[n] = 0
	}
	vbi.Encode(meta, buf[:vbiSize])
	copy(buf[vbiSize:vbiSize+i.lumaSize()], luma)

	out := buf[vbiSize+i.lumaSize():]
	pairs := len(audio) / i.Channels
	if max := i.MaxPairsPerField(); pairs > max {
		pairs = max
	}
	binary.BigEndian.PutUint16(out, uint16(pairs))
	for n := 0; n < pairs*i.Channels; n++ {
		binary.BigEndian.PutUint16(out[2+n*2:], uint16(audio[n]))
	}
}
