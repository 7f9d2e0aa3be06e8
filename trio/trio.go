package trio

import (
	"path/filepath"

	"github.com/jsphweid/digiscore/constants"
	"github.com/jsphweid/digiscore/midi"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNotTrio = errors.New("expected exactly 3 tracks")

func isChannelMessage(msg smf.Message) bool {
	return len(msg) > 0 && msg[0] >= 0x80 && msg[0] < 0xF0
}

func isEndOfTrack(msg smf.Message) bool {
	return len(msg) >= 2 && msg[0] == 0xFF && msg[1] == 0x2F
}

func onDrumChannel(msg smf.Message) smf.Message {
	res := make(smf.Message, len(msg))
	copy(res, msg)
	res[0] = res[0]&0xF0 | constants.DrumChannel
	return res
}

func relabel(track smf.Track, index int) smf.Track {
	name := constants.TrioTrackNames[index]
	var res smf.Track
	named := false
	for _, ev := range track {
		var s string
		switch {
		case ev.Message.GetMetaTrackName(&s):
			res = append(res, smf.Event{Delta: ev.Delta, Message: smf.MetaTrackSequenceName(name)})
			named = true
		case index == 0 && isChannelMessage(ev.Message):
			res = append(res, smf.Event{Delta: ev.Delta, Message: onDrumChannel(ev.Message)})
		default:
			res = append(res, ev)
		}
	}

	if !named {
		res = append(smf.Track{{Delta: 0, Message: smf.MetaTrackSequenceName(name)}}, res...)
	}
	if len(res) == 0 || !isEndOfTrack(res[len(res)-1].Message) {
		res.Close(0)
	}
	return res
}

// Convert relabels a three track file as Drums, Melody and Bass. Every event
// is kept; channel messages of the first track move to the drum channel.
func Convert(s *smf.SMF) (*smf.SMF, error) {
	if len(s.Tracks) != 3 {
		return nil, errors.Wrapf(ErrNotTrio, "got %v", len(s.Tracks))
	}

	res := smf.NewSMF1()
	res.TimeFormat = s.TimeFormat
	for i, track := range s.Tracks {
		if err := res.Add(relabel(track, i)); err != nil {
			return nil, errors.Wrapf(err, "adding track %v", i)
		}
	}
	return res, nil
}

// DefaultOutputDir is the trio_midis folder next to the input.
func DefaultOutputDir(in string) string {
	return filepath.Join(filepath.Dir(in), constants.TrioDirName)
}

// ConvertFile writes the relabeled file to outDir under its original name and
// returns the written path. An empty outDir means DefaultOutputDir(in).
func ConvertFile(in, outDir string) (string, error) {
	s, err := midi.ReadMidiFile(in)
	if err != nil {
		return "", errors.Wrap(err, in)
	}
	res, err := Convert(s)
	if err != nil {
		return "", errors.Wrap(err, in)
	}

	if outDir == "" {
		outDir = DefaultOutputDir(in)
	}
	out := filepath.Join(outDir, filepath.Base(in))
	if err := midi.WriteSMFFile(res, out); err != nil {
		return "", err
	}
	return out, nil
}
