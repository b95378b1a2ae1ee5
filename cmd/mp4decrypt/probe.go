package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// probeFile prints one line per sample description in the container so
// callers can see which key IDs a decryption run must cover. Protected
// entries carry the tenc defaults; everything else is reported as clear.
func probeFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	parsed, err := mp4.DecodeFile(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	moov := parsed.Moov
	if moov == nil && parsed.Init != nil {
		moov = parsed.Init.Moov
	}
	if moov == nil {
		return fmt.Errorf("%s: no moov box", path)
	}

	for _, trak := range moov.Traks {
		if trak.Tkhd == nil {
			continue
		}
		trackID := trak.Tkhd.TrackID

		var stsd *mp4.StsdBox
		if trak.Mdia != nil && trak.Mdia.Minf != nil && trak.Mdia.Minf.Stbl != nil {
			stsd = trak.Mdia.Minf.Stbl.Stsd
		}
		if stsd == nil {
			fmt.Fprintf(w, "track %d (no sample description)\n", trackID)
			continue
		}

		printed := false
		for _, child := range stsd.Children {
			var sinf *mp4.SinfBox
			switch entry := child.(type) {
			case *mp4.VisualSampleEntryBox:
				sinf = entry.Sinf
			case *mp4.AudioSampleEntryBox:
				sinf = entry.Sinf
			}

			if sinf == nil || sinf.Schi == nil || sinf.Schi.Tenc == nil {
				fmt.Fprintf(w, "track %d %s clear\n", trackID, child.Type())
				printed = true
				continue
			}

			scheme := "unknown"
			if sinf.Schm != nil {
				scheme = sinf.Schm.SchemeType
			}
			tenc := sinf.Schi.Tenc
			fmt.Fprintf(w, "track %d %s scheme=%s kid=%s protected=%d iv_size=%d\n",
				trackID, child.Type(), scheme,
				hex.EncodeToString(tenc.DefaultKID),
				tenc.DefaultIsProtected, tenc.DefaultPerSampleIVSize)
			printed = true
		}
		if !printed {
			fmt.Fprintf(w, "track %d (no sample description)\n", trackID)
		}
	}
	return nil
}
