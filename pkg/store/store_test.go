package store

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestDispatchReducesAndNotifies(t *testing.T) {
	st := New(State{})

	var got []string
	st.Subscribe(func(prev, next State) {
		got = append(got, userName(prev)+"->"+userName(next))
	})

	st.Dispatch(LoginSuccess(&User{Name: "alice"}))
	st.Dispatch(LogoutSuccess())

	want := []string{"->alice", "alice->"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("transitions = %v, want %v", got, want)
	}
	if !st.State().Auth.Loaded {
		t.Error("Auth.Loaded = false, want true after logout")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	st := New(State{})
	calls := 0
	stop := st.Subscribe(func(State, State) { calls++ })

	st.Dispatch(SetUser(nil))
	stop()
	stop()
	st.Dispatch(SetUser(nil))

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestReentrantDispatchIsDeliveredInOrder(t *testing.T) {
	st := New(State{})

	var seen []ActionType
	st.Subscribe(func(prev, next State) {
		switch {
		case next.Auth.User.Present() && !prev.Auth.User.Present():
			seen = append(seen, AuthLogin)
			// Dispatching from a listener must not skip or reorder updates.
			st.Dispatch(LogoutSuccess())
		case !next.Auth.User.Present() && prev.Auth.User.Present():
			seen = append(seen, AuthLogout)
		}
	})

	st.Dispatch(LoginSuccess(&User{Name: "alice"}))

	if len(seen) != 2 || seen[0] != AuthLogin || seen[1] != AuthLogout {
		t.Fatalf("seen = %v, want [login logout]", seen)
	}
	if st.State().CurrentUser() != nil {
		t.Error("CurrentUser() != nil after re-entrant logout")
	}
}

func TestConcurrentDispatchDeliversEveryUpdate(t *testing.T) {
	st := New(State{})

	var mu sync.Mutex
	count := 0
	chained := true
	var last State
	first := true
	st.Subscribe(func(prev, next State) {
		mu.Lock()
		defer mu.Unlock()
		count++
		if !first && len(prev.Data) != len(last.Data) {
			chained = false
		}
		first = false
		last = next
	})

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.Dispatch(Action{Type: DataLoadSuccess, Key: string(rune('a'+i%26)) + strings.Repeat("x", i), Value: i})
		}(i)
	}
	wg.Wait()

	if count != n {
		t.Errorf("notifications = %d, want %d", count, n)
	}
	if !chained {
		t.Error("a transition's prev did not follow the previous transition's next")
	}
	if len(st.State().Data) != n {
		t.Errorf("len(Data) = %d, want %d", len(st.State().Data), n)
	}
}

func TestReduceDataSlots(t *testing.T) {
	s := Reduce(State{}, Action{Type: DataLoad, Key: "widgets"})
	if sl, _ := s.Slot("widgets"); !sl.Loading {
		t.Error("widgets.Loading = false after data/load")
	}

	before := s
	s = Reduce(s, Action{Type: DataLoadSuccess, Key: "widgets", Value: []string{"a"}})
	if sl, _ := s.Slot("widgets"); !sl.Loaded || sl.Loading {
		t.Errorf("widgets = %+v, want loaded", sl)
	}
	if sl, _ := before.Slot("widgets"); sl.Loaded {
		t.Error("reducer mutated the previous state's data map")
	}

	s = Reduce(s, Action{Type: DataLoadFail, Key: "widgets", Error: "boom"})
	if sl, _ := s.Slot("widgets"); sl.Loaded || sl.Error != "boom" {
		t.Errorf("widgets = %+v, want failed", sl)
	}
}

func TestReduceInfo(t *testing.T) {
	s := Reduce(State{}, Action{Type: InfoLoadSuccess, Info: &Info{Message: "hi", Time: 1}})
	if !s.Info.Loaded || s.Info.Data.Message != "hi" {
		t.Errorf("Info = %+v, want loaded with message", s.Info)
	}
	s = Reduce(s, Action{Type: InfoLoadFail, Error: "down"})
	if s.Info.Loaded || s.Info.Error != "down" {
		t.Errorf("Info = %+v, want failed", s.Info)
	}
}

func TestUserPresence(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want bool
	}{
		{"nil", nil, false},
		{"empty name", &User{}, false},
		{"named", &User{Name: "alice"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Present(); got != tt.want {
				t.Errorf("Present() = %v, want %v", got, tt.want)
			}
			got := State{Auth: AuthState{User: tt.user}}.CurrentUser()
			if (got != nil) != tt.want {
				t.Errorf("CurrentUser() = %v, want present=%v", got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := State{
		Auth: AuthState{Loaded: true, User: &User{Name: "alice", Attrs: map[string]any{"role": "admin"}}},
		Info: InfoState{Loaded: true, Data: &Info{Message: "hi"}},
		Data: map[string]Slot{"widgets": {Loaded: true}},
	}
	c := orig.Clone()
	c.Auth.User.Name = "bob"
	c.Auth.User.Attrs["role"] = "guest"
	c.Info.Data.Message = "changed"
	c.Data["other"] = Slot{}

	if orig.Auth.User.Name != "alice" || orig.Auth.User.Attrs["role"] != "admin" {
		t.Errorf("original user changed: %+v", orig.Auth.User)
	}
	if orig.Info.Data.Message != "hi" {
		t.Errorf("original info changed: %+v", orig.Info.Data)
	}
	if _, ok := orig.Data["other"]; ok {
		t.Error("original data map changed")
	}
}

func TestMarshalJSON(t *testing.T) {
	st := New(State{Auth: AuthState{Loaded: true, User: &User{Name: "alice"}}})
	b, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back State
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.Auth.User == nil || back.Auth.User.Name != "alice" {
		t.Errorf("round-tripped user = %+v, want alice", back.Auth.User)
	}
}

func userName(s State) string {
	if u := s.CurrentUser(); u != nil {
		return u.Name
	}
	return ""
}

func TestListenerPanicDoesNotStallDelivery(t *testing.T) {
	st := New(State{})

	var got []string
	st.Subscribe(func(prev, next State) {
		got = append(got, userName(next))
	})
	st.Subscribe(func(prev, next State) {
		if userName(next) == "boom" {
			panic("listener failed")
		}
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Dispatch did not propagate the listener panic")
			}
		}()
		st.Dispatch(LoginSuccess(&User{Name: "boom"}))
	}()

	st.Dispatch(LoginSuccess(&User{Name: "alice"}))
	st.Dispatch(LogoutSuccess())

	want := []string{"boom", "alice", ""}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("delivered = %q, want %q", got, want)
	}
}
