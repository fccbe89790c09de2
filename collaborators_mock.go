// Copyright 2022 Bogdan Constantinescu.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/LICENSE.

package scle

import (
	"sync"
	"sync/atomic"
)

// MockNotificationPanel is a mock for the NotificationPanel contract, to be
// used in tests asserting P3 ("no spurious notification") and the S1-S7
// scenarios' suggest/apply/dismiss bookkeeping.
type MockNotificationPanel struct {
	mu         sync.Mutex
	shown      map[FileKey]bool
	showCalls  uint32
	hideCalls  uint32
	onAccept   map[FileKey]func()
	onDismiss  map[FileKey]func()
	showCallback func(fileKey FileKey)
}

// NewMockNotificationPanel instantiates a new mocked NotificationPanel.
func NewMockNotificationPanel() *MockNotificationPanel {
	return &MockNotificationPanel{
		shown:     make(map[FileKey]bool),
		onAccept:  make(map[FileKey]func()),
		onDismiss: make(map[FileKey]func()),
	}
}

// Show mock logic: records the callbacks so a test can later call Accept or
// Dismiss on behalf of the (simulated) user.
func (mock *MockNotificationPanel) Show(fileKey FileKey, onAccept func(), onDismiss func()) {
	atomic.AddUint32(&mock.showCalls, 1)
	mock.mu.Lock()
	mock.shown[fileKey] = true
	mock.onAccept[fileKey] = onAccept
	mock.onDismiss[fileKey] = onDismiss
	callback := mock.showCallback
	mock.mu.Unlock()
	if callback != nil {
		callback(fileKey)
	}
}

// Hide mock logic.
func (mock *MockNotificationPanel) Hide(fileKey FileKey) {
	atomic.AddUint32(&mock.hideCalls, 1)
	mock.mu.Lock()
	delete(mock.shown, fileKey)
	delete(mock.onAccept, fileKey)
	delete(mock.onDismiss, fileKey)
	mock.mu.Unlock()
}

// Has mock logic.
func (mock *MockNotificationPanel) Has(fileKey FileKey) bool {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	return mock.shown[fileKey]
}

// SetShowCallback sets a callback executed inside Show(), for assertions on
// the call sequence (mirrors MockConfig.SetGetCallback in the original
// xconf package).
func (mock *MockNotificationPanel) SetShowCallback(callback func(fileKey FileKey)) {
	mock.mu.Lock()
	mock.showCallback = callback
	mock.mu.Unlock()
}

// ShowCallsCount returns the no. of times Show() was called.
func (mock *MockNotificationPanel) ShowCallsCount() int {
	return int(atomic.LoadUint32(&mock.showCalls))
}

// HideCallsCount returns the no. of times Hide() was called.
func (mock *MockNotificationPanel) HideCallsCount() int {
	return int(atomic.LoadUint32(&mock.hideCalls))
}

// Accept simulates the user accepting the currently shown panel for
// fileKey; it's a no-op if nothing is shown for that key.
func (mock *MockNotificationPanel) Accept(fileKey FileKey) {
	mock.mu.Lock()
	cb := mock.onAccept[fileKey]
	mock.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Dismiss simulates the user dismissing the currently shown panel for
// fileKey; it's a no-op if nothing is shown for that key.
func (mock *MockNotificationPanel) Dismiss(fileKey FileKey) {
	mock.mu.Lock()
	cb := mock.onDismiss[fileKey]
	mock.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// MockReportSink is a mock for the ReportSink contract.
type MockReportSink struct {
	mu          sync.Mutex
	attachCalls uint32
	reports     map[FileKey][]Diagnostic
}

// NewMockReportSink instantiates a new mocked ReportSink.
func NewMockReportSink() *MockReportSink {
	return &MockReportSink{reports: make(map[FileKey][]Diagnostic)}
}

// Attach mock logic.
func (mock *MockReportSink) Attach(fileKey FileKey, diagnostics []Diagnostic) {
	atomic.AddUint32(&mock.attachCalls, 1)
	mock.mu.Lock()
	mock.reports[fileKey] = diagnostics
	mock.mu.Unlock()
}

// AttachCallsCount returns the no. of times Attach() was called.
func (mock *MockReportSink) AttachCallsCount() int {
	return int(atomic.LoadUint32(&mock.attachCalls))
}

// Get returns the diagnostics last attached for fileKey.
func (mock *MockReportSink) Get(fileKey FileKey) []Diagnostic {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	return mock.reports[fileKey]
}
