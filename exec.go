package wordcloud

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/esimov/wordcloud/utils"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// TextExtensions lists the source file extensions picked up from a directory.
var TextExtensions = []string{".txt", ".md", ".text"}

// Ops describes the source and the destination of a batch run.
type Ops struct {
	Src, Dst, PipeName string
	// Format is the extension of the images generated from a directory.
	Format  string
	Workers int
}

// result holds the outcome of a single word cloud generation.
type result struct {
	path string
	err  error
}

// Execute generates the word clouds described by the operation. The source can be
// a text file, a directory of text files, a URL or the pipe name for stdin.
// It returns the first error encountered.
func (p *Processor) Execute(op *Ops) error {
	if err := p.Validate(); err != nil {
		return err
	}

	defaultMsg := fmt.Sprintf("%s %s",
		utils.DecorateText("☁ WORDCLOUD", utils.StatusMessage),
		utils.DecorateText("⇢ placing the words...", utils.DefaultMessage),
	)
	if p.Spinner == nil {
		p.Spinner = utils.NewSpinner(defaultMsg, time.Millisecond*80, true)
	}

	var (
		fs  os.FileInfo
		src = op.Src
		err error
	)

	// Check if the source path is a local file or URL.
	if utils.IsValidUrl(op.Src) {
		f, err := utils.DownloadFile(op.Src, "text")
		if err != nil {
			return errors.Wrap(err, "failed to load the source text")
		}
		defer os.Remove(f.Name())
		defer f.Close()

		src = f.Name()
		fs, err = f.Stat()
		if err != nil {
			return errors.Wrap(err, "failed to load the source text")
		}
	} else {
		// Check if the source is a pipe name or a regular file.
		if op.Src == op.PipeName {
			fs, err = os.Stdin.Stat()
		} else {
			fs, err = os.Stat(op.Src)
		}
		if err != nil {
			return errors.Wrap(err, "failed to load the source text")
		}
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		err = op.batch(p, src)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || mode&os.ModeCharDevice != 0:
		ext := strings.ToLower(filepath.Ext(op.Dst))
		if op.Dst != op.PipeName && !utils.Contains(SupportedExtensions, ext) {
			return errors.Errorf("%v file type not supported", ext)
		}
		if err = op.process(p, src, op.Dst); err == nil {
			op.printOpStatus(p, op.Dst, nil)
		}
	default:
		return errors.Errorf("unsupported source: %s", op.Src)
	}
	if err != nil {
		return err
	}

	p.logger().Info("done", "elapsed", utils.FormatTime(time.Since(now)))
	return nil
}

// batch generates an image for every text file found in the source directory, concurrently.
func (op *Ops) batch(p *Processor, src string) error {
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return errors.Wrapf(err, "unable to create the destination directory %q", op.Dst)
	}

	format := op.Format
	if format == "" {
		format = ".png"
	}
	if !strings.HasPrefix(format, ".") {
		format = "." + format
	}
	if !utils.Contains(SupportedExtensions, format) {
		return errors.Errorf("%v file type not supported", format)
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, src, TextExtensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(p, format, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var firstErr error
	for res := range ch {
		if res.err != nil && firstErr == nil {
			firstErr = errors.Wrapf(res.err, "failed to process %q", res.path)
		}
		op.printOpStatus(p, res.path, res.err)
	}
	if err := <-errc; err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// consumer reads the path names from the paths channel and generates the word cloud of each file.
func (op *Ops) consumer(
	p *Processor,
	format string,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		dst := filepath.Join(op.Dst, base+format)
		err := op.process(p, src, dst)

		select {
		case <-done:
			return
		case res <- result{
			path: dst,
			err:  err,
		}:
		}
	}
}

// process generates a single word cloud and removes the destination file on failure.
func (op *Ops) process(p *Processor, in, out string) error {
	successMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("☁ WORDCLOUD", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the word cloud has been generated successfully ✔", utils.SuccessMessage),
	)
	errorMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("☁ WORDCLOUD", utils.StatusMessage),
		utils.DecorateText("generating the word cloud failed...", utils.DefaultMessage),
		utils.DecorateText("✘", utils.ErrorMessage),
	)

	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}

	// Capture CTRL-C signal and restores back the cursor visibility.
	stopWatch := watchInterrupt(func() {
		p.Spinner.RestoreCursor()
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			os.Remove(f.Name())
		}
	})
	defer stopWatch()

	defer closeFile(p.logger(), src)
	defer closeFile(p.logger(), dst)

	// The spinner would garble the image written on stdout.
	if out != op.PipeName {
		p.Spinner.Start()
	}
	err = p.Process(src, dst)
	if err != nil {
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			os.Remove(f.Name())
		}
		p.Spinner.StopMsg = errorMsg
		p.Spinner.Stop()
		return err
	}
	p.Spinner.StopMsg = successMsg
	p.Spinner.Stop()

	return nil
}

// watchInterrupt runs cleanup and exits once the process gets interrupted.
// The returned function stops watching and waits for the watcher to return.
func watchInterrupt(cleanup func()) func() {
	sigc := make(chan os.Signal, 1)
	done := make(chan struct{})
	exited := make(chan struct{})

	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer close(exited)
		select {
		case <-sigc:
			cleanup()
			os.Exit(1)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigc)
		close(done)
		<-exited
	}
}

func closeFile(logger *log.Logger, f any) {
	file, ok := f.(*os.File)
	if !ok || file == os.Stdin || file == os.Stdout {
		return
	}
	if err := file.Close(); err != nil {
		logger.Warn("could not close the opened file", "file", file.Name(), "err", err)
	}
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to open the source file")
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			closeFile(log.Default(), src)
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			closeFile(log.Default(), src)
			return nil, nil, errors.Wrap(err, "unable to create the destination file")
		}
	}
	return src, dst, nil
}

// printOpStatus displays the outcome of a word cloud generation.
func (op *Ops) printOpStatus(p *Processor, fname string, err error) {
	if err != nil {
		p.logger().Error(utils.DecorateText("error generating the word cloud", utils.ErrorMessage), "file", fname, "reason", err)
		return
	}
	if fname != op.PipeName {
		p.logger().Info("the word cloud has been saved as: " + utils.DecorateText(filepath.Base(fname), utils.SuccessMessage))
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				return nil
			}
			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
