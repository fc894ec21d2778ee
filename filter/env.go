package filter

/*
Here the Env used in the room-feed filter expressions is defined.
Once this struct is fixed, it should not be changed, otherwise filters stored
in client bookmarks may not compile any more (f.e. if properties are renamed).
*/

type Room struct {
	Id           string
	Name         string
	TeamCount    int
	Duration     int
	IsStarted    bool
	Participants int
}

type Env struct {
	Room
}
