package utils

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ProgressReader wraps an io.Reader and draws an upload progress bar to out.
type ProgressReader struct {
	reader      io.Reader
	out         io.Writer
	total       int64
	read        int64
	description string
	startTime   time.Time
	lastPrint   time.Time
	finished    bool
	lastLineLen int
}

func NewProgressReader(reader io.Reader, out io.Writer, total int64, description string) *ProgressReader {
	now := time.Now()
	return &ProgressReader{
		reader:      reader,
		out:         out,
		total:       total,
		description: description,
		startTime:   now,
		lastPrint:   now,
	}
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)

	if n > 0 {
		pr.read += int64(n)
		now := time.Now()
		if now.Sub(pr.lastPrint) > 200*time.Millisecond || err != nil {
			pr.printProgress()
			pr.lastPrint = now
		}
	}

	if err == io.EOF && !pr.finished {
		pr.finished = true
		pr.printProgress()
		fmt.Fprintln(pr.out)
	}

	return n, err
}

// Seek lets the SDK rewind the body on retries.
func (pr *ProgressReader) Seek(offset int64, whence int) (int64, error) {
	seeker, ok := pr.reader.(io.Seeker)
	if !ok {
		return 0, fmt.Errorf("underlying reader does not support seeking")
	}
	pos, err := seeker.Seek(offset, whence)
	if err == nil {
		pr.read = pos
	}
	return pos, err
}

// Percent returns how much of the body has been read.
func (pr *ProgressReader) Percent() float64 {
	if pr.total <= 0 {
		return 0
	}
	p := float64(pr.read) / float64(pr.total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

func (pr *ProgressReader) printProgress() {
	if pr.total <= 0 {
		return
	}

	percentage := pr.Percent()

	var speed string
	if elapsed := time.Since(pr.startTime); elapsed.Seconds() > 0.1 {
		speed = fmt.Sprintf(" %s/s", humanize.IBytes(uint64(float64(pr.read)/elapsed.Seconds())))
	}

	const barWidth = 40
	filled := int(percentage * barWidth / 100)
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"

	line := fmt.Sprintf("%s %s %.1f%% (%s/%s)%s",
		pr.description, bar, percentage,
		humanize.IBytes(uint64(pr.read)), humanize.IBytes(uint64(pr.total)), speed)

	if pr.lastLineLen > len(line) {
		fmt.Fprintf(pr.out, "\r%s\r", strings.Repeat(" ", pr.lastLineLen))
	}
	fmt.Fprintf(pr.out, "\r%s", line)
	pr.lastLineLen = len(line)
}

// Close finishes the progress display
func (pr *ProgressReader) Close() error {
	if !pr.finished {
		pr.finished = true
		pr.printProgress()
		fmt.Fprintln(pr.out)
	}
	return nil
}
