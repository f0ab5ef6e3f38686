package lock

// ILocker is the contract shared by every lock the harnesses drive.
// *sync.Mutex satisfies it as well.
type ILocker interface {
	Lock()
	Unlock()
	TryLock() bool
}
