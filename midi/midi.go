package midi

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jsphweid/digiscore/model"
	"github.com/jsphweid/digiscore/util"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	ErrParse                 = errors.New("could not parse midi file")
	ErrUnsupportedTimeFormat = errors.New("unsupported time format, expected metric ticks")
)

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	return ReadMidiBytes(dat)
}

func ReadMidiBytes(dat []byte) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Wrap(ErrParse, fmt.Sprint(r))
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	return res, nil
}

// Load reads and decodes path. Every failure is reported as ErrParse.
func Load(path string) (*model.Document, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		if errors.Is(err, ErrParse) {
			return nil, errors.Wrap(err, path)
		}
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	doc, err := Decode(s)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "%v: %v", path, err)
	}
	return doc, nil
}

func LoadBytes(dat []byte) (*model.Document, error) {
	s, err := ReadMidiBytes(dat)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(s)
	if err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	return doc, nil
}

func Bytes(doc *model.Document) ([]byte, error) {
	s, err := Encode(doc)
	if err != nil {
		return nil, err
	}
	return SMFBytes(s)
}

func SMFBytes(s *smf.SMF) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing midi data")
	}
	return buf.Bytes(), nil
}

func WriteMidiFile(doc *model.Document, path string) error {
	data, err := Bytes(doc)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(path, data)
}

func WriteSMFFile(s *smf.SMF, path string) error {
	data, err := SMFBytes(s)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(path, data)
}
