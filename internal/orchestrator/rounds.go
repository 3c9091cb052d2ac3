package orchestrator

// TotalRounds is the fixed length of the pipeline.
const TotalRounds = 3

// DefaultAnimationTitle is handed to the animation creator with extracted code.
const DefaultAnimationTitle = "AI生成的数学动画"

// Round is one fixed-prompt stage.
type Round struct {
	// Name is the display label, e.g. "需求分析".
	Name string
	// Prompt is sent as the system message of the round.
	Prompt string
}

// DefaultRounds returns requirement analysis, technical feasibility and code generation.
func DefaultRounds() [TotalRounds]Round {
	return [TotalRounds]Round{
		{
			Name: "需求分析",
			Prompt: `你是一名数学可视化需求分析师。用户会用自然语言描述一个数学概念、公式或算法。
请完成以下工作：
1. 明确要可视化的数学对象及其核心性质
2. 列出动画中需要出现的元素（坐标系、图形、标注、文字说明等）
3. 描述动画随时间变化的方式（哪些量在变化、变化的节奏）
4. 指出需要用户交互的部分（如有）
请用条理清晰的中文列表输出需求说明，不要编写代码。`,
		},
		{
			Name: "技术评估",
			Prompt: `你是一名p5.js技术专家。你会收到一份数学动画的需求说明。
请评估如何在400x400的p5.js画布上实现它：
1. 逐条说明每个需求对应的p5.js实现方式（绘图函数、坐标变换、颜色方案）
2. 给出关键的数学计算步骤和需要维护的状态变量
3. 指出性能或可读性方面的风险并给出简化方案
4. 给出setup()与draw()的整体结构设计
请用中文输出技术方案，不要输出完整代码。`,
		},
		{
			Name: "代码生成",
			Prompt: `你是一名p5.js代码生成专家。你会收到一份数学动画的技术方案。
请严格按照方案生成完整可运行的p5.js代码：
1. 使用setup()和draw()函数结构，画布大小为400x400
2. 代码自包含，不依赖外部资源
3. 添加中文注释解释数学概念
4. 动画流畅且具有教育意义
请把代码放在一个 ` + "```javascript" + ` 代码块中返回。`,
		},
	}
}

// withDefaults fills empty names and prompts from DefaultRounds.
func withDefaults(rounds [TotalRounds]Round) [TotalRounds]Round {
	def := DefaultRounds()
	for i := range rounds {
		if rounds[i].Name == "" {
			rounds[i].Name = def[i].Name
		}
		if rounds[i].Prompt == "" {
			rounds[i].Prompt = def[i].Prompt
		}
	}
	return rounds
}
