package modes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spotter-ai/go-spotter/pkg/command"
	"github.com/spotter-ai/go-spotter/pkg/depth"
	"github.com/spotter-ai/go-spotter/pkg/detect"
	"github.com/spotter-ai/go-spotter/pkg/geometry"
	"github.com/spotter-ai/go-spotter/pkg/ocr"
	"github.com/spotter-ai/go-spotter/pkg/tracker"
	"github.com/spotter-ai/go-spotter/pkg/vision"
)

// fakeQueue records announcements synchronously.
type fakeQueue struct {
	said   []string
	now    []string
	resets int
}

func (q *fakeQueue) Say(text string)    { q.said = append(q.said, text) }
func (q *fakeQueue) SayNow(text string) { q.now = append(q.now, text) }
func (q *fakeQueue) ResetThrottle()     { q.resets++ }

func (q *fakeQueue) total() int { return len(q.said) + len(q.now) }

func testFrame() detect.Frame {
	return detect.Frame{JPEG: []byte("jpeg-bytes"), Width: 640, Height: 480}
}

func det(class string, conf float64, box geometry.Box) detect.Detection {
	return detect.Detection{Box: box, Confidence: conf, Class: class}
}

// leftBox sits in the left third of a 640x480 frame, vertical center.
func leftBox() geometry.Box { return geometry.Box{X1: 10, Y1: 200, X2: 100, Y2: 280} }

type fixture struct {
	queue    *fakeQueue
	cmds     chan command.Command
	coord    *Coordinator
	find     *Find
	identify *Identify
	read     *Read
	analyze  *Analyze
	ocr      *ocr.Mock
	vision   *vision.Mock
}

func newFixture(findCfg FindConfig, idCfg IdentifyConfig) *fixture {
	f := &fixture{
		queue:  &fakeQueue{},
		cmds:   make(chan command.Command, 8),
		ocr:    &ocr.Mock{},
		vision: &vision.Mock{},
	}
	f.find = NewFind(f.queue, tracker.New(), depth.Noop{}, f.ocr, findCfg)
	f.identify = NewIdentify(f.queue, f.ocr, idCfg)
	f.read = NewRead(f.queue, f.ocr, ReadConfig{})
	f.analyze = NewAnalyze(f.queue, f.vision, "")
	f.coord = NewCoordinator(f.queue, f.cmds, f.find, f.identify, f.read, f.analyze)
	return f
}

func TestFindLocksOnceThenTracksSilently(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{WaitFrames: 3})
	frame := testFrame()
	dets := []detect.Detection{
		det("milk_carton", 0.8, leftBox()),
		det("person", 0.9, geometry.Box{X1: 300, Y1: 100, X2: 400, Y2: 400}),
	}

	fx.cmds <- command.Command{Action: command.ActionFind, Argument: "milk"}
	res := fx.coord.Tick(dets, frame)

	if res.Mode != ModeFind {
		t.Fatalf("mode = %s, want find", res.Mode)
	}
	if !res.Locked {
		t.Fatal("expected lock on first matching frame")
	}
	if len(fx.queue.now) != 2 {
		t.Fatalf("immediate announcements = %v", fx.queue.now)
	}
	if fx.queue.now[0] != "Looking for milk." {
		t.Errorf("start announcement = %q", fx.queue.now[0])
	}
	if fx.queue.now[1] != "Found milk on your left!" {
		t.Errorf("lock announcement = %q", fx.queue.now[1])
	}

	// Silent tracking: no further announcements across N frames.
	before := fx.queue.total()
	for i := 0; i < 20; i++ {
		res = fx.coord.Tick(dets, frame)
		if !res.Locked {
			t.Fatalf("lost lock on frame %d", i)
		}
	}
	if fx.queue.total() != before {
		t.Errorf("expected silent tracking, got %v / %v", fx.queue.said, fx.queue.now)
	}
	if res.Direction == "" {
		t.Error("expected direction computed for the session snapshot")
	}
}

func TestFindMatchesOCRTextFallback(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	fx.ocr.ReadTextFunc = func(frame detect.Frame, box geometry.Box) (string, error) {
		return "MILK 2%", nil
	}
	frame := testFrame()
	// Straight off the detector: class does not match and Text is empty,
	// so the handler has to read the candidate's region itself.
	d := det("bottle", 0.7, leftBox())

	fx.cmds <- command.Command{Action: command.ActionFind, Argument: "milk"}
	res := fx.coord.Tick([]detect.Detection{d}, frame)
	if !res.Locked {
		t.Fatal("expected OCR-text match to lock")
	}
	if fx.ocr.Reads() == 0 {
		t.Error("handler locked without consulting OCR")
	}
	if fx.queue.now[len(fx.queue.now)-1] != "Found milk on your left!" {
		t.Errorf("lock announcement = %q", fx.queue.now[len(fx.queue.now)-1])
	}
}

func TestFindClassMatchSkipsOCR(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionFind, Argument: "milk"}
	res := fx.coord.Tick([]detect.Detection{det("milk_carton", 0.8, leftBox())}, frame)
	if !res.Locked {
		t.Fatal("expected class match to lock")
	}
	if fx.ocr.Reads() != 0 {
		t.Errorf("class match should not read text, got %d reads", fx.ocr.Reads())
	}
}

func TestFindOCRErrorStaysUnlocked(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	fx.ocr.ReadTextFunc = func(frame detect.Frame, box geometry.Box) (string, error) {
		return "", errors.New("service down")
	}
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionFind, Argument: "milk"}
	res := fx.coord.Tick([]detect.Detection{det("bottle", 0.7, leftBox())}, frame)
	if res.Locked {
		t.Fatal("locked despite OCR failure and no class match")
	}
}

func TestFindNoMatchStaysUnlocked(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionFind, Argument: "milk"}
	res := fx.coord.Tick([]detect.Detection{det("chair", 0.9, leftBox())}, frame)
	if res.Locked {
		t.Fatal("locked without a match")
	}
	if res.Mode != ModeFind {
		t.Errorf("mode = %s, find does not self-terminate", res.Mode)
	}
}

func TestFindGuidanceVariantAnnouncesDirection(t *testing.T) {
	fx := newFixture(FindConfig{AnnounceGuidance: true}, IdentifyConfig{})
	frame := testFrame()
	dets := []detect.Detection{det("milk_carton", 0.8, leftBox())}

	fx.cmds <- command.Command{Action: command.ActionFind, Argument: "milk"}
	fx.coord.Tick(dets, frame)
	fx.coord.Tick(dets, frame)
	fx.coord.Tick(dets, frame)

	if len(fx.queue.said) != 2 {
		t.Fatalf("throttled guidance = %v, want one per tracking frame", fx.queue.said)
	}
	if !strings.HasPrefix(fx.queue.said[0], "on your left") {
		t.Errorf("guidance = %q", fx.queue.said[0])
	}
}

func TestStopResetsFindAndThrottle(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	frame := testFrame()
	dets := []detect.Detection{det("milk_carton", 0.8, leftBox())}

	fx.cmds <- command.Command{Action: command.ActionFind, Argument: "milk"}
	fx.coord.Tick(dets, frame)
	resetsBefore := fx.queue.resets

	fx.cmds <- command.Command{Action: command.ActionStop}
	res := fx.coord.Tick(nil, frame)

	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s, want idle", res.Mode)
	}
	if fx.find.Locked() || fx.find.Query() != "" {
		t.Error("find handler not reset on stop")
	}
	if fx.queue.resets <= resetsBefore {
		t.Error("throttle memory not cleared on stop")
	}
	if last := fx.queue.now[len(fx.queue.now)-1]; last != "Stopped." {
		t.Errorf("stop announcement = %q", last)
	}
}

func TestIdentifyWaitsThenDescribes(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{WaitFrames: 3})
	fx.ocr.ReadTextFunc = func(frame detect.Frame, box geometry.Box) (string, error) {
		return "OAT MILK", nil
	}
	frame := testFrame()
	dets := []detect.Detection{det("cup", 0.9, leftBox())}

	fx.cmds <- command.Command{Action: command.ActionWhat}
	for i := 0; i < 2; i++ {
		res := fx.coord.Tick(dets, frame)
		if res.Mode != ModeWhat {
			t.Fatalf("frame %d: mode = %s, still waiting", i, res.Mode)
		}
	}
	res := fx.coord.Tick(dets, frame)
	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s, want idle after completion", res.Mode)
	}

	last := fx.queue.now[len(fx.queue.now)-1]
	if last != "I see a cup on your left. It says: OAT MILK" {
		t.Errorf("description = %q", last)
	}
}

func TestIdentifyNothingDetected(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{WaitFrames: 1})
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionWhat}
	res := fx.coord.Tick(nil, frame)
	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s", res.Mode)
	}
	if last := fx.queue.now[len(fx.queue.now)-1]; last != "Nothing detected." {
		t.Errorf("announcement = %q", last)
	}
}

func TestReadCompletesOnFirstFrame(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	fx.ocr.ReadTextFunc = func(frame detect.Frame, box geometry.Box) (string, error) {
		return "best before 2027", nil
	}
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionRead}
	res := fx.coord.Tick([]detect.Detection{det("carton", 0.9, leftBox())}, frame)
	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s, read should self-terminate", res.Mode)
	}
	if last := fx.queue.now[len(fx.queue.now)-1]; last != "The text reads: best before 2027" {
		t.Errorf("announcement = %q", last)
	}
}

func TestReadNoText(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionRead}
	fx.coord.Tick([]detect.Detection{det("cup", 0.9, leftBox())}, frame)
	if last := fx.queue.now[len(fx.queue.now)-1]; last != "No text found on the cup." {
		t.Errorf("announcement = %q", last)
	}
}

func TestReadOCRErrorReadsAsNoText(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	fx.ocr.ReadTextFunc = func(frame detect.Frame, box geometry.Box) (string, error) {
		return "", errors.New("service down")
	}
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionRead}
	res := fx.coord.Tick([]detect.Detection{det("cup", 0.9, leftBox())}, frame)
	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s", res.Mode)
	}
	if last := fx.queue.now[len(fx.queue.now)-1]; last != "No text found on the cup." {
		t.Errorf("announcement = %q", last)
	}
}

func TestAnalyzeUnavailableStaysIdle(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	fx.vision.AvailableFunc = func() bool { return false }
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionDetails}
	res := fx.coord.Tick(nil, frame)
	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s, want idle when backend unavailable", res.Mode)
	}
	if last := fx.queue.now[len(fx.queue.now)-1]; last != "Vision analysis is not configured." {
		t.Errorf("announcement = %q", last)
	}
}

func TestAnalyzeAnnouncesAnswer(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	fx.vision.IdentifyFunc = func(ctx context.Context, jpeg []byte, prompt string) (string, error) {
		return "Organic oat milk, one liter.", nil
	}
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionDetails}
	res := fx.coord.Tick(nil, frame)
	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s, details should self-terminate", res.Mode)
	}
	if !res.Loading {
		t.Error("expected loading flag on the frame issuing the call")
	}
	if last := fx.queue.now[len(fx.queue.now)-1]; last != "Organic oat milk, one liter." {
		t.Errorf("announcement = %q", last)
	}
}

func TestAnalyzeFailureAnnouncesGenericError(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	fx.vision.IdentifyFunc = func(ctx context.Context, jpeg []byte, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	}
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionDetails}
	res := fx.coord.Tick(nil, frame)
	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s", res.Mode)
	}
	if last := fx.queue.now[len(fx.queue.now)-1]; last != "Analysis failed. Please try again." {
		t.Errorf("announcement = %q", last)
	}
}

func TestAnalyzeCapturesFrameCopy(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	var got []byte
	fx.vision.IdentifyFunc = func(ctx context.Context, jpeg []byte, prompt string) (string, error) {
		got = jpeg
		return "answer", nil
	}
	frame := testFrame()

	if !fx.analyze.Start(frame) {
		t.Fatal("Start failed")
	}
	// The capture loop reuses its frame buffer; the handler must have
	// taken its own copy on Start.
	frame.JPEG[0] = 'X'
	fx.analyze.Process(nil, detect.Frame{})
	if string(got) != "jpeg-bytes" {
		t.Errorf("analysis saw mutated frame: %q", got)
	}
}

func TestNewCommandImplicitlyStopsActiveMode(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{WaitFrames: 40})
	frame := testFrame()
	dets := []detect.Detection{det("milk_carton", 0.8, leftBox())}

	fx.cmds <- command.Command{Action: command.ActionFind, Argument: "milk"}
	fx.coord.Tick(dets, frame)
	if !fx.find.Locked() {
		t.Fatal("setup: find did not lock")
	}

	fx.cmds <- command.Command{Action: command.ActionWhat}
	res := fx.coord.Tick(dets, frame)
	if res.Mode != ModeWhat {
		t.Fatalf("mode = %s, want what", res.Mode)
	}
	if fx.find.Locked() || fx.find.Query() != "" {
		t.Error("find handler not reset by implicit stop")
	}
}

func TestCoordinatorDrainsOneCommandPerTick(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionRead}
	fx.cmds <- command.Command{Action: command.ActionWhat}

	res := fx.coord.Tick(nil, frame)
	// Read completes immediately, so the tick ends idle; the what command
	// must still be pending for the next tick.
	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s", res.Mode)
	}
	res = fx.coord.Tick(nil, frame)
	if res.Mode != ModeWhat {
		t.Fatalf("second tick mode = %s, want what", res.Mode)
	}
}

func TestEmptyFindIgnored(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionFind, Argument: ""}
	res := fx.coord.Tick(nil, frame)
	if res.Mode != ModeIdle {
		t.Fatalf("mode = %s, empty find must be ignored", res.Mode)
	}
	if fx.queue.total() != 0 {
		t.Errorf("unexpected announcements %v / %v", fx.queue.said, fx.queue.now)
	}
}

func TestQuitTerminates(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionQuit}
	res := fx.coord.Tick(nil, frame)
	if !res.Quit || res.Mode != ModeTerminated {
		t.Fatalf("result = %+v, want terminated", res)
	}
	// Further ticks stay terminated.
	res = fx.coord.Tick(nil, frame)
	if !res.Quit {
		t.Error("coordinator left terminated state")
	}
}

func TestStopInIdleIsSilent(t *testing.T) {
	fx := newFixture(FindConfig{}, IdentifyConfig{})
	frame := testFrame()

	fx.cmds <- command.Command{Action: command.ActionStop}
	fx.coord.Tick(nil, frame)
	if fx.queue.total() != 0 {
		t.Errorf("stop in idle announced %v / %v", fx.queue.said, fx.queue.now)
	}
}
