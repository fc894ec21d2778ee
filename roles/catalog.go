package roles

import "github.com/khnpedu/tension-meeting/types"

// GuideLine is one speaking-guide entry of a role card.
type GuideLine struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Definition is one immutable entry of the role catalog. PublicProfile contains
// a {name} placeholder which is filled with the participant name for display.
type Definition struct {
	Id             types.RoleID `json:"id"`
	Title          string       `json:"title"`
	Emoji          string       `json:"emoji"`
	Rank           string       `json:"rank"`
	Age            string       `json:"age"`
	Experience     string       `json:"experience"`
	Intro          string       `json:"intro"`
	PublicProfile  string       `json:"publicProfile"`
	SecretRole     string       `json:"secretRole"`
	Mission        string       `json:"mission"`
	Guides         []GuideLine  `json:"guides"`
	HierarchyLevel int          `json:"hierarchyLevel"` // lower = higher rank, display grouping only
}

// Catalog is the process-wide constant role table. The first four entries form
// the base set handed out to every team of up to four members.
var Catalog = []Definition{
	{
		Id:             types.RoleLeader,
		Title:          "회의 주재자",
		Emoji:          "🧭",
		Rank:           "부장",
		Age:            "52세",
		Experience:     "27년차",
		Intro:          "회의의 시작과 끝을 쥐고 있는 베테랑 부장.",
		PublicProfile:  "{name} 부장은 부서의 살림을 도맡아 온 27년차 베테랑입니다. 결론 없는 회의를 가장 싫어합니다.",
		SecretRole:     "당신은 회의를 주도하되, 팀원들의 발언 기회를 공평하게 분배해야 합니다.",
		Mission:        "회의 종료 전까지 모든 팀원이 최소 한 번씩 발언하게 만드세요.",
		HierarchyLevel: 1,
		Guides: []GuideLine{
			{Category: "오프닝", Text: "자, 시간이 많지 않으니 핵심부터 정리합시다."},
			{Category: "진행", Text: "그 의견 좋네요. 실무 입장에서는 어떻게 봅니까?"},
		},
	},
	{
		Id:             types.RoleDictator,
		Title:          "독불장군 차장",
		Emoji:          "👑",
		Rank:           "차장",
		Age:            "48세",
		Experience:     "22년차",
		Intro:          "내 결정이 곧 결론이라고 믿는 독단의 화신.",
		PublicProfile:  "{name} 차장은 추진력 하나로 승진해 온 인물입니다. 한번 정한 방향은 좀처럼 바꾸지 않습니다.",
		SecretRole:     "당신은 처음 낸 본인의 안을 끝까지 밀어붙이는 독단적 리더입니다.",
		Mission:        "회의 초반에 제시한 본인의 안이 최종 결론에 반영되도록 만드세요.",
		HierarchyLevel: 2,
		Guides: []GuideLine{
			{Category: "주장", Text: "이건 제가 해봐서 아는데, 그 방법은 안 됩니다."},
			{Category: "반박", Text: "좋은 얘기인데, 결론은 아까 제가 말한 대로 가는 게 맞아요."},
		},
	},
	{
		Id:             types.RoleYesman,
		Title:          "맞장구의 달인",
		Emoji:          "🙆",
		Rank:           "사원",
		Age:            "29세",
		Experience:     "3년차",
		Intro:          "모든 의견에 고개를 끄덕이는 팀의 분위기 메이커.",
		PublicProfile:  "{name} 사원은 선배들의 의견을 누구보다 빠르게 받아 적는 성실한 막내입니다.",
		SecretRole:     "당신은 상급자의 모든 의견에 동조하는 예스맨입니다. 반대 의견은 입 밖에 내지 않습니다.",
		Mission:        "서로 충돌하는 두 의견 모두에 공개적으로 찬성해 보세요.",
		HierarchyLevel: 5,
		Guides: []GuideLine{
			{Category: "동조", Text: "맞습니다, 저도 정확히 그렇게 생각하고 있었습니다."},
			{Category: "수습", Text: "두 분 말씀이 사실 같은 방향 아닐까요?"},
		},
	},
	{
		Id:             types.RoleMediator,
		Title:          "갈등 조정자",
		Emoji:          "🕊️",
		Rank:           "과장",
		Age:            "41세",
		Experience:     "15년차",
		Intro:          "싸움이 나면 어느새 가운데 서 있는 중재 전문가.",
		PublicProfile:  "{name} 과장은 부서 간 갈등을 여러 번 봉합해 온 협상가형 인재입니다.",
		SecretRole:     "당신은 회의가 감정싸움으로 번지지 않게 막는 중재자입니다.",
		Mission:        "의견 충돌이 생길 때마다 양쪽의 공통점을 찾아 정리해 주세요.",
		HierarchyLevel: 3,
		Guides: []GuideLine{
			{Category: "중재", Text: "잠깐만요, 두 의견의 공통분모부터 정리해 보죠."},
			{Category: "정리", Text: "그러면 절충안으로 이렇게 가 보면 어떨까요?"},
		},
	},
	{
		Id:             types.RoleActive,
		Title:          "열정 실무자",
		Emoji:          "🔥",
		Rank:           "대리",
		Age:            "34세",
		Experience:     "8년차",
		Intro:          "아이디어가 끊이지 않는 행동파 실무자.",
		PublicProfile:  "{name} 대리는 새로운 기획이라면 밤을 새워서라도 해내는 에너지의 소유자입니다.",
		SecretRole:     "당신은 아이디어를 쏟아내는 열정 실무자입니다. 다만 실현 가능성 검토는 뒷전입니다.",
		Mission:        "회의 중 새로운 아이디어를 최소 세 개 이상 제안하세요.",
		HierarchyLevel: 4,
		Guides: []GuideLine{
			{Category: "제안", Text: "이건 어떨까요? 지역 축제랑 연계하면 시너지가 날 것 같은데요."},
			{Category: "추진", Text: "일단 해보면서 다듬으면 되지 않을까요?"},
		},
	},
	{
		Id:             types.RoleBystander,
		Title:          "조용한 방관자",
		Emoji:          "🪑",
		Rank:           "대리",
		Age:            "37세",
		Experience:     "10년차",
		Intro:          "회의 내내 수첩만 바라보는 침묵의 달인.",
		PublicProfile:  "{name} 대리는 묵묵히 맡은 일을 해내는 실속형 직원입니다. 회의에서는 말을 아낍니다.",
		SecretRole:     "당신은 지명당하기 전까지는 먼저 나서지 않는 방관자입니다.",
		Mission:        "직접 질문을 받기 전까지 자발적 발언을 참고, 받으면 의외로 핵심을 짚어 주세요.",
		HierarchyLevel: 4,
		Guides: []GuideLine{
			{Category: "침묵", Text: "(고개를 끄덕이며 메모만 한다)"},
			{Category: "한방", Text: "아까부터 듣고 있었는데, 예산 얘기가 빠진 것 같습니다."},
		},
	},
	{
		Id:             types.RoleDistractor,
		Title:          "삼천포 여행가",
		Emoji:          "🌀",
		Rank:           "과장",
		Age:            "45세",
		Experience:     "18년차",
		Intro:          "어떤 안건이든 5분 만에 주제를 바꿔 버리는 이야기꾼.",
		PublicProfile:  "{name} 과장은 발이 넓고 아는 것이 많아 어떤 화제든 대화를 이어 갑니다.",
		SecretRole:     "당신은 회의를 자꾸 다른 길로 끌고 가는 산만한 참석자입니다.",
		Mission:        "안건과 무관한 화제로 회의를 두 번 이상 탈선시켜 보세요.",
		HierarchyLevel: 3,
		Guides: []GuideLine{
			{Category: "탈선", Text: "아 그 얘기 들으니까 생각난 건데, 작년 워크숍 때 말이죠."},
			{Category: "복귀", Text: "아, 제가 또 얘기가 샜네요. 어디까지 했죠?"},
		},
	},
	{
		Id:             types.RoleFreeloader,
		Title:          "무임승차 전문가",
		Emoji:          "🦥",
		Rank:           "사원",
		Age:            "31세",
		Experience:     "5년차",
		Intro:          "결론이 나면 제일 먼저 박수 치는 프리라이더.",
		PublicProfile:  "{name} 사원은 팀 분위기에 잘 녹아드는 원만한 성격의 소유자입니다.",
		SecretRole:     "당신은 일을 맡지 않으려 요리조리 빠져나가는 무임승차자입니다.",
		Mission:        "역할 분담 시간에 본인 몫의 일을 다른 사람에게 넘기는 데 성공하세요.",
		HierarchyLevel: 5,
		Guides: []GuideLine{
			{Category: "회피", Text: "그건 아무래도 실무를 잘 아는 분이 맡는 게 낫지 않을까요?"},
			{Category: "칭찬", Text: "역시 대리님이 하시면 다르네요. 저는 응원하겠습니다."},
		},
	},
}

var catalogById map[types.RoleID]*Definition

func init() {
	catalogById = make(map[types.RoleID]*Definition, len(Catalog))
	for i := range Catalog {
		catalogById[Catalog[i].Id] = &Catalog[i]
	}
}

// Lookup returns the catalog entry for the given role id, or nil.
func Lookup(id types.RoleID) *Definition {
	return catalogById[id]
}
